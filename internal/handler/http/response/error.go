package response

import (
	"errors"
	"net/http"

	"github.com/tutorbase/billing-backend-go/internal/domain/auth"
	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
	"github.com/tutorbase/billing-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token has been revoked")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrMissingCompanyClaim):
		Forbidden(w, "Company claim is missing")

	// Company domain errors
	case errors.Is(err, company.ErrAdminNotFound):
		NotFound(w, "Company admin not found")
	case errors.Is(err, company.ErrTutorNotFound):
		NotFound(w, "Tutor not found")
	case errors.Is(err, company.ErrStudentNotFound):
		NotFound(w, "Student not found")
	case errors.Is(err, company.ErrUnknownCompanyType):
		BadRequest(w, "Unknown company type", nil)
	case errors.Is(err, company.ErrPayExceedsPrice):
		BadRequest(w, company.ErrPayExceedsPrice.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrMustChargeStudentsFirst):
		Conflict(w, payroll.ErrMustChargeStudentsFirst.Error())
	case errors.Is(err, payroll.ErrMustPayTutorsFirst):
		Conflict(w, payroll.ErrMustPayTutorsFirst.Error())
	case errors.Is(err, payroll.ErrInvalidCompanyType):
		BadRequest(w, payroll.ErrInvalidCompanyType.Error(), nil)
	case errors.Is(err, payroll.ErrNoActiveSubscription):
		Forbidden(w, payroll.ErrNoActiveSubscription.Error())
	case errors.Is(err, payroll.ErrEmptyRoster):
		BadRequest(w, "Company has no billable members", nil)
	case errors.Is(err, payroll.ErrPayrollAlreadyCompleted):
		Conflict(w, "Payroll already completed")
	case errors.Is(err, payroll.ErrVersionConflict):
		Conflict(w, "Payroll was modified concurrently, retry the operation")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
