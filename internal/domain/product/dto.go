package product

import "github.com/workbridge/erp-backend-go/internal/pkg/validator"

type CreateProductRequest struct {
	Name        string  `json:"name"`
	SKU         *string `json:"sku,omitempty"`
	Description *string `json:"description,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	Unit        string  `json:"unit"`
	PictureURL  *string `json:"picture_url,omitempty"`
}

func (r *CreateProductRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if r.UnitPrice < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "unit_price",
			Message: "unit_price must not be negative",
		})
	}
	if validator.IsEmpty(r.Unit) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateProductRequest struct {
	ID          string   `json:"-"`
	Name        *string  `json:"name,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Description *string  `json:"description,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	PictureURL  *string  `json:"picture_url,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (r *UpdateProductRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "unit_price",
			Message: "unit_price must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
