package payroll

import "context"

// Service is the payroll orchestration surface exposed to the HTTP layer.
//
// Prepare computes fresh ledgers from the company roster and reconciles them
// into the company's open cycle (or creates one). The three stage methods are
// independently invokable and idempotent per line item: re-invoking a stage
// only touches entries that are not settled yet.
type Service interface {
	Prepare(ctx context.Context, companyCode string) (Payroll, error)
	ChargeStudents(ctx context.Context, payrollID string) (Payroll, error)
	PayTutors(ctx context.Context, payrollID string) (Payroll, error)
	PayAdmin(ctx context.Context, payrollID string) (Payroll, error)
	GetByID(ctx context.Context, payrollID string) (Payroll, error)
	ListByCompany(ctx context.Context, filter ListFilter) ([]Payroll, error)
}
