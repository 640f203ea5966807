package company

import "errors"

var (
	ErrAdminNotFound      = errors.New("company admin not found")
	ErrTutorNotFound      = errors.New("tutor not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrUnknownCompanyType = errors.New("unknown company type")
	ErrPayExceedsPrice    = errors.New("pay_amount_cannot_be_higher_than_price_amount")
)
