package product

import "errors"

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrSKUExists       = errors.New("SKU already exists in this company")
)
