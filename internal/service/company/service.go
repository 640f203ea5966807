package company

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
)

type CompanyServiceImpl struct {
	repo company.Repository
}

func NewCompanyService(repo company.Repository) company.Service {
	return &CompanyServiceImpl{repo: repo}
}

func (s *CompanyServiceImpl) GetAdmin(ctx context.Context, companyCode string) (company.Admin, error) {
	return s.repo.GetAdminByCompanyCode(ctx, companyCode)
}

// ListRoster implements company.Service.
func (s *CompanyServiceImpl) ListRoster(ctx context.Context, companyCode string) ([]company.StudentResponse, error) {
	admin, err := s.repo.GetAdminByCompanyCode(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	var roster []company.Student
	switch admin.CompanyType {
	case company.CompanyTypeTutorGroup:
		roster, err = s.repo.ListStudents(ctx, companyCode)
	case company.CompanyTypeIndividualGroup:
		roster, err = s.repo.ListIndividuals(ctx, companyCode)
	default:
		return nil, company.ErrUnknownCompanyType
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list company roster: %w", err)
	}

	return lo.Map(roster, func(s company.Student, _ int) company.StudentResponse {
		return toStudentResponse(s)
	}), nil
}

// ListTutors implements company.Service.
func (s *CompanyServiceImpl) ListTutors(ctx context.Context, companyCode string) ([]company.TutorResponse, error) {
	tutors, err := s.repo.ListTutors(ctx, companyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list company tutors: %w", err)
	}

	return lo.Map(tutors, func(t company.Tutor, _ int) company.TutorResponse {
		return toTutorResponse(t)
	}), nil
}

// GetTutor implements company.Service.
func (s *CompanyServiceImpl) GetTutor(ctx context.Context, id string, companyCode string) (company.TutorResponse, error) {
	tutor, err := s.repo.GetTutorByID(ctx, id, companyCode)
	if err != nil {
		return company.TutorResponse{}, err
	}
	return toTutorResponse(tutor), nil
}

// SetTutorPricing implements company.Service. A pay rate above the charge
// rate would make every session a loss for the company, so it is rejected
// before anything is stored.
func (s *CompanyServiceImpl) SetTutorPricing(ctx context.Context, companyCode string, req company.SetTutorPricingRequest) (company.TutorResponse, error) {
	if err := req.Validate(); err != nil {
		return company.TutorResponse{}, err
	}

	if req.PayPerHourCents > req.PricePerSessionCents {
		return company.TutorResponse{}, company.ErrPayExceedsPrice
	}

	tutor, err := s.repo.SetTutorPricing(ctx, req.TutorID, companyCode, company.TutorPricing{
		PricePerSessionCents: req.PricePerSessionCents,
		PayPerHourCents:      req.PayPerHourCents,
	})
	if err != nil {
		return company.TutorResponse{}, err
	}

	return toTutorResponse(tutor), nil
}

func toTutorResponse(t company.Tutor) company.TutorResponse {
	return company.TutorResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		CompanyCode:          t.CompanyCode,
		PricePerSessionCents: t.Pricing.PricePerSessionCents,
		PayPerHourCents:      t.Pricing.PayPerHourCents,
		SubAccountRef:        t.SubAccountRef,
	}
}

func toStudentResponse(s company.Student) company.StudentResponse {
	sessions := len(s.SessionStarts)
	if len(s.SessionEnds) < sessions {
		sessions = len(s.SessionEnds)
	}

	return company.StudentResponse{
		ID:                      s.ID,
		Name:                    s.Name,
		CompanyCode:             s.CompanyCode,
		TutorID:                 s.TutorID,
		TutorName:               s.TutorName,
		SessionCount:            sessions,
		HasDefaultPaymentMethod: s.HasDefaultPaymentMethod,
	}
}
