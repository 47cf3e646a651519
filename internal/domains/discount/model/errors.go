package model

import "errors"

var (
	ErrDiscountNotFound   = errors.New("discount code not found")
	ErrDuplicateCode      = errors.New("discount code already exists")
	ErrDiscountInactive   = errors.New("discount code is not active")
	ErrDiscountOutOfRange = errors.New("discount code is outside its validity window")
)
