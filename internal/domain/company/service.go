package company

import "context"

// Service exposes roster reads and tutor rate management to the HTTP layer.
type Service interface {
	GetAdmin(ctx context.Context, companyCode string) (Admin, error)
	// ListRoster returns the billable members appropriate to the company's
	// type: students for tutor_group, individuals otherwise.
	ListRoster(ctx context.Context, companyCode string) ([]StudentResponse, error)
	ListTutors(ctx context.Context, companyCode string) ([]TutorResponse, error)
	GetTutor(ctx context.Context, id string, companyCode string) (TutorResponse, error)
	SetTutorPricing(ctx context.Context, companyCode string, req SetTutorPricingRequest) (TutorResponse, error)
}
