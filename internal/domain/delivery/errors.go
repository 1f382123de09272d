package delivery

import "errors"

var (
	ErrDeliveryNotFound = errors.New("Delivery not found")
	ErrNoItems          = errors.New("Delivery must have at least one item")
)
