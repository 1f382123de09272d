package company

import "github.com/workbridge/erp-backend-go/internal/pkg/validator"

type UpdateCompanyRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	LogoURL  *string `json:"logo_url,omitempty"`
	Website  *string `json:"website,omitempty"`
	TaxID    *string `json:"tax_id,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 255 characters",
			})
		}
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Currency != nil && !validator.IsValidCurrency(*r.Currency) {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be a three-letter ISO 4217 code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
