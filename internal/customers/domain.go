// Package customers holds the recipient party records documents are
// addressed to.
package customers

import (
	"errors"
	"time"
)

// ErrNotFound indicates the customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a person or company that receives documents.
type Customer struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	PostalCode string    `json:"postal_code"`
	City       string    `json:"city"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
