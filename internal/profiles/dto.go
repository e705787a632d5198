package profiles

// UpdateProfileRequest rewrites the address, contact and bank data of a
// profile. Branding keys are managed through the upload endpoints.
type UpdateProfileRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Street     string `json:"street" validate:"required,max=200"`
	PostalCode string `json:"postal_code" validate:"required,max=10"`
	City       string `json:"city" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"max=40"`
	Email      string `json:"email" validate:"omitempty,email"`
	Website    string `json:"website" validate:"max=200"`
	TaxID      string `json:"tax_id" validate:"max=40"`
	BankName   string `json:"bank_name" validate:"max=100"`
	IBAN       string `json:"iban" validate:"max=34"`
	BIC        string `json:"bic" validate:"max=11"`
}

func (req UpdateProfileRequest) apply(p Profile) Profile {
	p.Name = req.Name
	p.Street = req.Street
	p.PostalCode = req.PostalCode
	p.City = req.City
	p.Phone = req.Phone
	p.Email = req.Email
	p.Website = req.Website
	p.TaxID = req.TaxID
	p.BankName = req.BankName
	p.IBAN = req.IBAN
	p.BIC = req.BIC
	return p
}

// SettingsRequest upserts the billing settings of a profile.
type SettingsRequest struct {
	OfferPrefix        string `json:"offer_prefix" validate:"max=20"`
	OfferSuffix        string `json:"offer_suffix" validate:"max=20"`
	ConfirmationPrefix string `json:"confirmation_prefix" validate:"max=20"`
	ConfirmationSuffix string `json:"confirmation_suffix" validate:"max=20"`
	InvoicePrefix      string `json:"invoice_prefix" validate:"max=20"`
	InvoiceSuffix      string `json:"invoice_suffix" validate:"max=20"`
	PaymentTermsDays   int    `json:"payment_terms_days" validate:"gte=0,lte=365"`
	OfferValidityDays  int    `json:"offer_validity_days" validate:"gte=0,lte=365"`
}

func (req SettingsRequest) settings(profileID int64) Settings {
	return Settings{
		ProfileID:          profileID,
		OfferPrefix:        req.OfferPrefix,
		OfferSuffix:        req.OfferSuffix,
		ConfirmationPrefix: req.ConfirmationPrefix,
		ConfirmationSuffix: req.ConfirmationSuffix,
		InvoicePrefix:      req.InvoicePrefix,
		InvoiceSuffix:      req.InvoiceSuffix,
		PaymentTermsDays:   req.PaymentTermsDays,
		OfferValidityDays:  req.OfferValidityDays,
	}
}
