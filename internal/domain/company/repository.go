package company

import (
	"context"
	"time"
)

// Repository defines data access for company rosters and pricing. All reads
// are scoped by company code so one company can never see another's roster.
type Repository interface {
	GetAdminByCompanyCode(ctx context.Context, companyCode string) (Admin, error)
	// GetAdminByEmail is the login lookup; it is the only read that carries
	// the password hash.
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdminByID(ctx context.Context, id string) (Admin, error)
	// ListStudents returns the billable roster for tutor_group companies.
	ListStudents(ctx context.Context, companyCode string) ([]Student, error)
	// ListIndividuals returns the billable roster for individual_group
	// companies.
	ListIndividuals(ctx context.Context, companyCode string) ([]Student, error)
	ListTutors(ctx context.Context, companyCode string) ([]Tutor, error)
	GetTutorByID(ctx context.Context, id string, companyCode string) (Tutor, error)
	SetTutorPricing(ctx context.Context, id string, companyCode string, pricing TutorPricing) (Tutor, error)
	// SetLastPayoutDate advances the admin's payout watermark after a cycle
	// completes.
	SetLastPayoutDate(ctx context.Context, adminID string, at time.Time) error
	// ClearPendingDiscount removes a student's one-shot discount reference
	// after it has been consumed by a successful charge.
	ClearPendingDiscount(ctx context.Context, studentID string) error
}
