package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
)

const (
	payoutCurrency = "USD"

	// Bounded retry for individual processor calls. Exhausted retries become
	// a line-item error, never a batch abort.
	maxProcessorRetries = 2
)

type PayrollServiceImpl struct {
	payrollRepo payroll.Repository
	companyRepo company.Repository
	processor   payroll.PaymentProcessor
	now         func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.Repository,
	companyRepo company.Repository,
	processor payroll.PaymentProcessor,
) payroll.Service {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		companyRepo: companyRepo,
		processor:   processor,
		now:         time.Now,
	}
}

// Prepare computes fresh ledgers from the company roster and either creates a
// new cycle or reconciles into the company's open one. At most one open cycle
// exists per company at any time.
func (s *PayrollServiceImpl) Prepare(ctx context.Context, companyCode string) (payroll.Payroll, error) {
	admin, err := s.companyRepo.GetAdminByCompanyCode(ctx, companyCode)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if !admin.HasActiveSubscription() {
		return payroll.Payroll{}, payroll.ErrNoActiveSubscription
	}

	var roster []company.Student
	switch admin.CompanyType {
	case company.CompanyTypeTutorGroup:
		roster, err = s.companyRepo.ListStudents(ctx, companyCode)
	case company.CompanyTypeIndividualGroup:
		roster, err = s.companyRepo.ListIndividuals(ctx, companyCode)
	default:
		return payroll.Payroll{}, payroll.ErrInvalidCompanyType
	}
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to read company roster: %w", err)
	}
	if len(roster) == 0 {
		return payroll.Payroll{}, payroll.ErrEmptyRoster
	}

	tutors, err := s.companyRepo.ListTutors(ctx, companyCode)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to read company tutors: %w", err)
	}

	fresh := BuildLedger(admin, roster, tutors, s.now())

	prev, err := s.payrollRepo.GetOpenByCompanyCode(ctx, companyCode)
	if errors.Is(err, payroll.ErrNoOpenPayroll) {
		return s.payrollRepo.Create(ctx, NewPayroll(admin, fresh))
	}
	if err != nil {
		return payroll.Payroll{}, err
	}

	return s.payrollRepo.Update(ctx, prev.ID, prev.Version, Reconcile(prev, fresh))
}

// ChargeStudents runs the first payout stage: one invoice-and-charge attempt
// per unsettled student entry. A failed processor call is recorded on that
// entry and the pass moves on; the stage flag flips only once every entry in
// the sub-ledger is paid.
func (s *PayrollServiceImpl) ChargeStudents(ctx context.Context, payrollID string) (payroll.Payroll, error) {
	p, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if p.Completed {
		return payroll.Payroll{}, payroll.ErrPayrollAlreadyCompleted
	}

	debts := make([]payroll.StudentDebt, len(p.StudentsDebt))
	copy(debts, p.StudentsDebt)

	for i := range debts {
		entry := &debts[i]
		if entry.Paid || entry.PendingOnboarding {
			continue
		}

		description := fmt.Sprintf("Tutoring sessions with %s (%.2f hours)", entry.TutorName, entry.Hours)

		invoiceRef, err := s.createInvoice(ctx, entry.CustomerRef, entry.DebtCents, description, entry.PendingDiscount)
		if err != nil {
			entry.Error = err.Error()
			continue
		}
		entry.InvoiceRef = invoiceRef

		if err := s.chargeInvoice(ctx, invoiceRef); err != nil {
			entry.Error = err.Error()
			continue
		}

		entry.Paid = true
		entry.Error = ""

		if entry.PendingDiscount != "" {
			// The discount is one-shot: once consumed by a successful charge
			// it must not apply to the next cycle.
			if err := s.companyRepo.ClearPendingDiscount(ctx, entry.StudentID); err == nil {
				entry.PendingDiscount = ""
			}
		}
	}

	updated, err := s.payrollRepo.UpdateStudentsDebt(ctx, p.ID, p.Version, debts)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if updated.AllStudentsPaid() && !updated.StudentsCharged {
		if err := s.payrollRepo.SetStudentsCharged(ctx, p.ID); err != nil {
			return payroll.Payroll{}, err
		}
		updated.StudentsCharged = true
	}

	return updated, nil
}

// PayTutors runs the second stage. It refuses to run before every student is
// charged. Transfers are reference-guarded so a retried pass never moves the
// same money twice.
func (s *PayrollServiceImpl) PayTutors(ctx context.Context, payrollID string) (payroll.Payroll, error) {
	p, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if p.Completed {
		return payroll.Payroll{}, payroll.ErrPayrollAlreadyCompleted
	}
	if !p.StudentsCharged {
		return payroll.Payroll{}, payroll.ErrMustChargeStudentsFirst
	}

	payouts := make([]payroll.TutorPayout, len(p.TutorsPayout))
	copy(payouts, p.TutorsPayout)

	for i := range payouts {
		entry := &payouts[i]
		if entry.Paid || entry.PendingOnboarding {
			continue
		}

		if entry.TransferRef == "" {
			ref, err := s.transfer(ctx, entry.SubAccountRef, entry.PayoutCents)
			if err != nil {
				entry.Error = err.Error()
				continue
			}
			entry.TransferRef = ref
		}

		ref, err := s.payout(ctx, entry.SubAccountRef, entry.PayoutCents)
		if err != nil {
			entry.Error = err.Error()
			continue
		}

		entry.PayoutRef = ref
		entry.Paid = true
		entry.Error = ""
	}

	updated, err := s.payrollRepo.UpdateTutorsPayout(ctx, p.ID, p.Version, payouts)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if updated.AllTutorsPaid() && !updated.TutorsPaid {
		if err := s.payrollRepo.SetTutorsPaid(ctx, p.ID); err != nil {
			return payroll.Payroll{}, err
		}
		updated.TutorsPaid = true
	}

	return updated, nil
}

// PayAdmin runs the final stage: the single admin profit payout. On full
// success the cycle is marked completed and the admin's payout watermark
// advances, which switches the next payroll to windowed hour accumulation.
func (s *PayrollServiceImpl) PayAdmin(ctx context.Context, payrollID string) (payroll.Payroll, error) {
	p, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if p.Completed {
		return payroll.Payroll{}, payroll.ErrPayrollAlreadyCompleted
	}
	if !p.TutorsPaid {
		return payroll.Payroll{}, payroll.ErrMustPayTutorsFirst
	}

	admin, err := s.companyRepo.GetAdminByCompanyCode(ctx, p.CompanyCode)
	if err != nil {
		return payroll.Payroll{}, err
	}

	adminPayout := p.AdminPayout

	if admin.SubAccountRef == "" || p.AdminPaid {
		// Nothing to move, but the stage still persists so callers always
		// get the stored state back.
		return s.payrollRepo.UpdateAdminPayout(ctx, p.ID, p.Version, adminPayout)
	}

	adminPayout.SubAccountRef = admin.SubAccountRef
	adminPayout.PendingOnboarding = false

	if adminPayout.TransferRef == "" {
		ref, err := s.transfer(ctx, admin.SubAccountRef, adminPayout.TotalProfitCents)
		if err != nil {
			adminPayout.Error = err.Error()
			return s.payrollRepo.UpdateAdminPayout(ctx, p.ID, p.Version, adminPayout)
		}
		adminPayout.TransferRef = ref
	}

	payoutRef, err := s.payout(ctx, admin.SubAccountRef, adminPayout.TotalProfitCents)
	if err != nil {
		adminPayout.Error = err.Error()
		return s.payrollRepo.UpdateAdminPayout(ctx, p.ID, p.Version, adminPayout)
	}

	adminPayout.PayoutRef = payoutRef
	adminPayout.Error = ""

	updated, err := s.payrollRepo.UpdateAdminPayout(ctx, p.ID, p.Version, adminPayout)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if err := s.payrollRepo.SetAdminPaid(ctx, p.ID); err != nil {
		return payroll.Payroll{}, err
	}
	if err := s.payrollRepo.MarkCompleted(ctx, p.ID); err != nil {
		return payroll.Payroll{}, err
	}
	if err := s.companyRepo.SetLastPayoutDate(ctx, admin.ID, s.now()); err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to advance last payout date: %w", err)
	}

	updated.AdminPaid = true
	updated.Completed = true

	return updated, nil
}

func (s *PayrollServiceImpl) GetByID(ctx context.Context, payrollID string) (payroll.Payroll, error) {
	return s.payrollRepo.GetByID(ctx, payrollID)
}

func (s *PayrollServiceImpl) ListByCompany(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	return s.payrollRepo.ListByCompanyCode(ctx, filter)
}

// ========== PROCESSOR CALLS ==========

// retryBackoff builds the bounded exponential backoff applied to every
// per-item processor call.
func retryBackoff(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxProcessorRetries), ctx)
}

func (s *PayrollServiceImpl) createInvoice(ctx context.Context, customerRef string, amountCents int64, description, discountRef string) (string, error) {
	var ref string
	err := backoff.Retry(func() error {
		var err error
		ref, err = s.processor.CreateInvoice(ctx, customerRef, amountCents, description, discountRef)
		return err
	}, retryBackoff(ctx))
	return ref, err
}

func (s *PayrollServiceImpl) chargeInvoice(ctx context.Context, invoiceRef string) error {
	return backoff.Retry(func() error {
		return s.processor.ChargeInvoice(ctx, invoiceRef)
	}, retryBackoff(ctx))
}

func (s *PayrollServiceImpl) transfer(ctx context.Context, subAccountRef string, amountCents int64) (string, error) {
	var ref string
	err := backoff.Retry(func() error {
		var err error
		ref, err = s.processor.Transfer(ctx, subAccountRef, amountCents, payoutCurrency)
		return err
	}, retryBackoff(ctx))
	return ref, err
}

func (s *PayrollServiceImpl) payout(ctx context.Context, subAccountRef string, amountCents int64) (string, error) {
	var ref string
	err := backoff.Retry(func() error {
		var err error
		ref, err = s.processor.Payout(ctx, subAccountRef, amountCents, payoutCurrency)
		return err
	}, retryBackoff(ctx))
	return ref, err
}
