// Package assets stores binary blobs (logos, letterhead templates and
// generated documents) in Postgres with a Redis read-through cache.
package assets

import (
	"errors"
	"time"
)

// ErrNotFound indicates the asset key is unknown.
var ErrNotFound = errors.New("asset not found")

// Asset is one stored blob.
type Asset struct {
	Key       string    `json:"key"`
	Mime      string    `json:"mime"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}
