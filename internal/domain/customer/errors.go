package customer

import "errors"

var ErrCustomerNotFound = errors.New("Customer not found")
