package company

import (
	"time"

	"github.com/tutorbase/billing-backend-go/internal/pkg/validator"
)

// SetTutorPricingRequest sets a tutor's rate card. Amounts arrive in cents.
type SetTutorPricingRequest struct {
	TutorID              string `json:"-"`
	PricePerSessionCents int64  `json:"price_per_session_cents"`
	PayPerHourCents      int64  `json:"pay_per_hour_cents"`
}

func (r *SetTutorPricingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PricePerSessionCents <= 0 {
		errs = append(errs, validator.ValidationError{Field: "price_per_session_cents", Message: "must be positive"})
	}
	if r.PayPerHourCents <= 0 {
		errs = append(errs, validator.ValidationError{Field: "pay_per_hour_cents", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AdminResponse is the admin profile without the password hash.
type AdminResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	CompanyCode        string     `json:"company_code"`
	CompanyType        string     `json:"company_type"`
	LastPayoutDate     *time.Time `json:"last_payout_date,omitempty"`
	SubAccountRef      string     `json:"sub_account_ref,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
}

type TutorResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	CompanyCode          string `json:"company_code"`
	PricePerSessionCents int64  `json:"price_per_session_cents"`
	PayPerHourCents      int64  `json:"pay_per_hour_cents"`
	SubAccountRef        string `json:"sub_account_ref,omitempty"`
}

type StudentResponse struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	CompanyCode             string `json:"company_code"`
	TutorID                 string `json:"tutor_id,omitempty"`
	TutorName               string `json:"tutor_name,omitempty"`
	SessionCount            int    `json:"session_count"`
	HasDefaultPaymentMethod bool   `json:"has_default_payment_method"`
}
