package payroll

import (
	"github.com/tutorbase/billing-backend-go/internal/pkg/validator"
)

// PrepareRequest asks for a payroll cycle to be computed (or reconciled into
// the company's open cycle) for the caller's company.
type PrepareRequest struct {
	CompanyCode string `json:"company_code"`
}

func (r *PrepareRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyCode) {
		errs = append(errs, validator.ValidationError{Field: "company_code", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows payroll listings.
type ListFilter struct {
	CompanyCode   string
	OnlyOpen      bool
	OnlyCompleted bool
}
