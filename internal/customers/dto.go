package customers

// UpsertCustomerRequest creates or rewrites a customer.
type UpsertCustomerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Street     string `json:"street" validate:"required,max=200"`
	PostalCode string `json:"postal_code" validate:"required,max=10"`
	City       string `json:"city" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (req UpsertCustomerRequest) customer() Customer {
	return Customer{
		Name:       req.Name,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		City:       req.City,
		Email:      req.Email,
	}
}
