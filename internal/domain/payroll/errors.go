package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll not found")
	ErrNoOpenPayroll           = errors.New("no open payroll for company")
	ErrVersionConflict         = errors.New("payroll was modified concurrently, retry with a fresh read")
	ErrMustChargeStudentsFirst = errors.New("must_charge_students_first")
	ErrMustPayTutorsFirst      = errors.New("must_paid_tutors_first")
	ErrInvalidCompanyType      = errors.New("invalid_company_type")
	ErrNoActiveSubscription    = errors.New("no_active_subscription")
	ErrAdminNotFound           = errors.New("company admin not found")
	ErrPayrollAlreadyCompleted = errors.New("payroll already completed")
	ErrEmptyRoster             = errors.New("company has no billable roster members")
)
