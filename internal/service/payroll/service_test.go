package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
)

// ========== FAKES ==========

type fakePayrollRepo struct {
	store  map[string]payroll.Payroll
	nextID int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{store: map[string]payroll.Payroll{}}
}

func (r *fakePayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.nextID++
	p.ID = fmt.Sprintf("pr-%d", r.nextID)
	p.Version = 1
	r.store[p.ID] = p
	return p, nil
}

func (r *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	p, ok := r.store[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) GetOpenByCompanyCode(_ context.Context, companyCode string) (payroll.Payroll, error) {
	for _, p := range r.store {
		if p.CompanyCode == companyCode && !p.Completed {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrNoOpenPayroll
}

func (r *fakePayrollRepo) ListByCompanyCode(_ context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	var out []payroll.Payroll
	for _, p := range r.store {
		if p.CompanyCode == filter.CompanyCode {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) checkVersion(id string, version int64) (payroll.Payroll, error) {
	p, ok := r.store[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	if p.Version != version {
		return payroll.Payroll{}, payroll.ErrVersionConflict
	}
	return p, nil
}

func (r *fakePayrollRepo) Update(_ context.Context, id string, version int64, p payroll.Payroll) (payroll.Payroll, error) {
	stored, err := r.checkVersion(id, version)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.ID = stored.ID
	p.Version = stored.Version + 1
	r.store[id] = p
	return p, nil
}

func (r *fakePayrollRepo) UpdateStudentsDebt(_ context.Context, id string, version int64, debts []payroll.StudentDebt) (payroll.Payroll, error) {
	p, err := r.checkVersion(id, version)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.StudentsDebt = debts
	p.Version++
	r.store[id] = p
	return p, nil
}

func (r *fakePayrollRepo) UpdateTutorsPayout(_ context.Context, id string, version int64, payouts []payroll.TutorPayout) (payroll.Payroll, error) {
	p, err := r.checkVersion(id, version)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.TutorsPayout = payouts
	p.Version++
	r.store[id] = p
	return p, nil
}

func (r *fakePayrollRepo) UpdateAdminPayout(_ context.Context, id string, version int64, payout payroll.AdminPayout) (payroll.Payroll, error) {
	p, err := r.checkVersion(id, version)
	if err != nil {
		return payroll.Payroll{}, err
	}
	p.AdminPayout = payout
	p.Version++
	r.store[id] = p
	return p, nil
}

func (r *fakePayrollRepo) setFlag(id string, set func(*payroll.Payroll)) error {
	p, ok := r.store[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	set(&p)
	r.store[id] = p
	return nil
}

func (r *fakePayrollRepo) SetStudentsCharged(_ context.Context, id string) error {
	return r.setFlag(id, func(p *payroll.Payroll) { p.StudentsCharged = true })
}

func (r *fakePayrollRepo) SetTutorsPaid(_ context.Context, id string) error {
	return r.setFlag(id, func(p *payroll.Payroll) { p.TutorsPaid = true })
}

func (r *fakePayrollRepo) SetAdminPaid(_ context.Context, id string) error {
	return r.setFlag(id, func(p *payroll.Payroll) { p.AdminPaid = true })
}

func (r *fakePayrollRepo) MarkCompleted(_ context.Context, id string) error {
	return r.setFlag(id, func(p *payroll.Payroll) { p.Completed = true })
}

type fakeCompanyRepo struct {
	admin       company.Admin
	students    []company.Student
	individuals []company.Student
	tutors      []company.Tutor

	clearedDiscounts []string
	lastPayoutSet    *time.Time
}

func (r *fakeCompanyRepo) GetAdminByCompanyCode(_ context.Context, companyCode string) (company.Admin, error) {
	if r.admin.CompanyCode != companyCode {
		return company.Admin{}, company.ErrAdminNotFound
	}
	return r.admin, nil
}

func (r *fakeCompanyRepo) GetAdminByEmail(_ context.Context, email string) (company.Admin, error) {
	if r.admin.Email != email {
		return company.Admin{}, company.ErrAdminNotFound
	}
	return r.admin, nil
}

func (r *fakeCompanyRepo) GetAdminByID(_ context.Context, id string) (company.Admin, error) {
	if r.admin.ID != id {
		return company.Admin{}, company.ErrAdminNotFound
	}
	return r.admin, nil
}

func (r *fakeCompanyRepo) ListStudents(_ context.Context, _ string) ([]company.Student, error) {
	return r.students, nil
}

func (r *fakeCompanyRepo) ListIndividuals(_ context.Context, _ string) ([]company.Student, error) {
	return r.individuals, nil
}

func (r *fakeCompanyRepo) ListTutors(_ context.Context, _ string) ([]company.Tutor, error) {
	return r.tutors, nil
}

func (r *fakeCompanyRepo) GetTutorByID(_ context.Context, id string, _ string) (company.Tutor, error) {
	for _, t := range r.tutors {
		if t.ID == id {
			return t, nil
		}
	}
	return company.Tutor{}, company.ErrTutorNotFound
}

func (r *fakeCompanyRepo) SetTutorPricing(_ context.Context, _ string, _ string, _ company.TutorPricing) (company.Tutor, error) {
	return company.Tutor{}, errors.New("not implemented")
}

func (r *fakeCompanyRepo) SetLastPayoutDate(_ context.Context, _ string, at time.Time) error {
	r.lastPayoutSet = &at
	return nil
}

func (r *fakeCompanyRepo) ClearPendingDiscount(_ context.Context, studentID string) error {
	r.clearedDiscounts = append(r.clearedDiscounts, studentID)
	return nil
}

// fakeProcessor scripts per-ref failures. Errors are wrapped as permanent so
// tests do not sit through backoff sleeps.
type fakeProcessor struct {
	failInvoiceFor  map[string]string
	failChargeFor   map[string]string
	failTransferFor map[string]string
	failPayoutFor   map[string]string

	invoices  []string
	charges   []string
	transfers []string
	payouts   []string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		failInvoiceFor:  map[string]string{},
		failChargeFor:   map[string]string{},
		failTransferFor: map[string]string{},
		failPayoutFor:   map[string]string{},
	}
}

func (p *fakeProcessor) CreateInvoice(_ context.Context, customerRef string, _ int64, _, _ string) (string, error) {
	if msg, ok := p.failInvoiceFor[customerRef]; ok {
		return "", backoff.Permanent(errors.New(msg))
	}
	p.invoices = append(p.invoices, customerRef)
	return "in_" + customerRef, nil
}

func (p *fakeProcessor) ChargeInvoice(_ context.Context, invoiceRef string) error {
	if msg, ok := p.failChargeFor[invoiceRef]; ok {
		return backoff.Permanent(errors.New(msg))
	}
	p.charges = append(p.charges, invoiceRef)
	return nil
}

func (p *fakeProcessor) Transfer(_ context.Context, subAccountRef string, _ int64, _ string) (string, error) {
	if msg, ok := p.failTransferFor[subAccountRef]; ok {
		return "", backoff.Permanent(errors.New(msg))
	}
	p.transfers = append(p.transfers, subAccountRef)
	return "tr_" + subAccountRef, nil
}

func (p *fakeProcessor) Payout(_ context.Context, subAccountRef string, _ int64, _ string) (string, error) {
	if msg, ok := p.failPayoutFor[subAccountRef]; ok {
		return "", backoff.Permanent(errors.New(msg))
	}
	p.payouts = append(p.payouts, subAccountRef)
	return "po_" + subAccountRef, nil
}

// ========== HELPERS ==========

func newTestService(t *testing.T) (*PayrollServiceImpl, *fakePayrollRepo, *fakeCompanyRepo, *fakeProcessor) {
	t.Helper()

	starts, ends := sessionsOf(t, 1.5)
	companyRepo := &fakeCompanyRepo{
		admin: testAdmin(),
		students: []company.Student{{
			ID: "stu-1", Name: "Sam", CompanyCode: "ACME", TutorID: "tut-1",
			SessionStarts: starts, SessionEnds: ends,
			CustomerRef: "cus_1", HasDefaultPaymentMethod: true,
		}},
		tutors: []company.Tutor{testTutor("tut-1", "Tina", 2000, 1000)},
	}

	payrollRepo := newFakePayrollRepo()
	processor := newFakeProcessor()

	svc := NewPayrollService(payrollRepo, companyRepo, processor).(*PayrollServiceImpl)
	svc.now = func() time.Time { return at(t, "2026-02-01T00:00:00Z") }

	return svc, payrollRepo, companyRepo, processor
}

func preparedPayroll(t *testing.T, svc *PayrollServiceImpl) payroll.Payroll {
	t.Helper()
	p, err := svc.Prepare(context.Background(), "ACME")
	require.NoError(t, err)
	return p
}

// ========== PREPARE ==========

func TestPrepareCreatesNewCycle(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	p, err := svc.Prepare(context.Background(), "ACME")

	require.NoError(t, err)
	assert.Equal(t, "pr-1", p.ID)
	assert.Equal(t, int64(1), p.Version)
	require.Len(t, p.StudentsDebt, 1)
	assert.Equal(t, int64(3000), p.StudentsDebt[0].DebtCents)
	require.Len(t, p.TutorsPayout, 1)
	assert.Equal(t, int64(1500), p.TutorsPayout[0].PayoutCents)
	assert.Equal(t, int64(2000), p.AdminPayout.TotalProfitCents)
	assert.Len(t, repo.store, 1)
}

func TestPrepareReconcilesIntoOpenCycle(t *testing.T) {
	svc, repo, companyRepo, _ := newTestService(t)

	first := preparedPayroll(t, svc)

	// A second session shows up before the cycle is settled.
	starts, ends := sessionsOf(t, 1.5, 0.5)
	companyRepo.students[0].SessionStarts = starts
	companyRepo.students[0].SessionEnds = ends

	second, err := svc.Prepare(context.Background(), "ACME")

	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Version+1, second.Version)
	require.Len(t, second.StudentsDebt, 1)
	assert.Equal(t, int64(4000), second.StudentsDebt[0].DebtCents)
	assert.Len(t, repo.store, 1)
}

func TestPrepareIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	first := preparedPayroll(t, svc)
	second := preparedPayroll(t, svc)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.StudentsDebt, second.StudentsDebt)
	assert.Equal(t, first.TutorsPayout, second.TutorsPayout)
	assert.Equal(t, first.AdminPayout, second.AdminPayout)
}

func TestPrepareRequiresActiveSubscription(t *testing.T) {
	svc, _, companyRepo, _ := newTestService(t)
	companyRepo.admin.SubscriptionStatus = "past_due"

	_, err := svc.Prepare(context.Background(), "ACME")

	assert.ErrorIs(t, err, payroll.ErrNoActiveSubscription)
}

func TestPrepareRejectsUnknownCompanyType(t *testing.T) {
	svc, _, companyRepo, _ := newTestService(t)
	companyRepo.admin.CompanyType = "franchise"

	_, err := svc.Prepare(context.Background(), "ACME")

	assert.ErrorIs(t, err, payroll.ErrInvalidCompanyType)
}

func TestPrepareRejectsEmptyRoster(t *testing.T) {
	svc, _, companyRepo, _ := newTestService(t)
	companyRepo.students = nil

	_, err := svc.Prepare(context.Background(), "ACME")

	assert.ErrorIs(t, err, payroll.ErrEmptyRoster)
}

func TestPrepareUsesIndividualRoster(t *testing.T) {
	svc, _, companyRepo, _ := newTestService(t)
	companyRepo.admin.CompanyType = company.CompanyTypeIndividualGroup
	companyRepo.individuals = companyRepo.students
	companyRepo.students = nil

	p, err := svc.Prepare(context.Background(), "ACME")

	require.NoError(t, err)
	assert.Len(t, p.StudentsDebt, 1)
}

// ========== CHARGE STUDENTS ==========

func TestChargeStudentsHappyPath(t *testing.T) {
	svc, repo, _, processor := newTestService(t)
	p := preparedPayroll(t, svc)

	charged, err := svc.ChargeStudents(context.Background(), p.ID)

	require.NoError(t, err)
	require.Len(t, charged.StudentsDebt, 1)
	assert.True(t, charged.StudentsDebt[0].Paid)
	assert.Equal(t, "in_cus_1", charged.StudentsDebt[0].InvoiceRef)
	assert.True(t, charged.StudentsCharged)
	assert.Equal(t, []string{"cus_1"}, processor.invoices)
	assert.Equal(t, []string{"in_cus_1"}, processor.charges)
	assert.True(t, repo.store[p.ID].StudentsCharged)
}

func TestChargeStudentsRecordsFailureAndContinues(t *testing.T) {
	svc, _, companyRepo, processor := newTestService(t)
	starts, ends := sessionsOf(t, 1.0)
	companyRepo.students = append(companyRepo.students, company.Student{
		ID: "stu-2", Name: "Pat", CompanyCode: "ACME", TutorID: "tut-1",
		SessionStarts: starts, SessionEnds: ends,
		CustomerRef: "cus_2", HasDefaultPaymentMethod: true,
	})
	processor.failChargeFor["in_cus_1"] = "card declined"

	p := preparedPayroll(t, svc)
	charged, err := svc.ChargeStudents(context.Background(), p.ID)

	require.NoError(t, err)
	failed := payroll.FindStudentDebt(charged.StudentsDebt, "stu-1")
	require.NotNil(t, failed)
	assert.False(t, failed.Paid)
	assert.Equal(t, "card declined", failed.Error)

	ok := payroll.FindStudentDebt(charged.StudentsDebt, "stu-2")
	require.NotNil(t, ok)
	assert.True(t, ok.Paid)

	assert.False(t, charged.StudentsCharged)
}

func TestChargeStudentsRetryClearsRecordedError(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	processor.failChargeFor["in_cus_1"] = "card declined"

	p := preparedPayroll(t, svc)
	charged, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, "card declined", charged.StudentsDebt[0].Error)

	delete(processor.failChargeFor, "in_cus_1")
	charged, err = svc.ChargeStudents(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, charged.StudentsDebt[0].Paid)
	assert.Empty(t, charged.StudentsDebt[0].Error)
	assert.True(t, charged.StudentsCharged)
}

func TestChargeStudentsSkipsPaidAndPendingOnboarding(t *testing.T) {
	svc, _, companyRepo, processor := newTestService(t)
	companyRepo.students[0].HasDefaultPaymentMethod = false

	p := preparedPayroll(t, svc)
	charged, err := svc.ChargeStudents(context.Background(), p.ID)

	require.NoError(t, err)
	assert.False(t, charged.StudentsDebt[0].Paid)
	assert.Empty(t, processor.invoices)
	assert.False(t, charged.StudentsCharged)
}

func TestChargeStudentsDoesNotChargeTwice(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	p := preparedPayroll(t, svc)

	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)
	_, err = svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Len(t, processor.invoices, 1)
	assert.Len(t, processor.charges, 1)
}

func TestChargeStudentsConsumesPendingDiscount(t *testing.T) {
	svc, _, companyRepo, _ := newTestService(t)
	companyRepo.students[0].PendingDiscountRef = "disc_1"

	p := preparedPayroll(t, svc)
	require.Equal(t, "disc_1", p.StudentsDebt[0].PendingDiscount)

	charged, err := svc.ChargeStudents(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Empty(t, charged.StudentsDebt[0].PendingDiscount)
	assert.Equal(t, []string{"stu-1"}, companyRepo.clearedDiscounts)
}

// ========== PAY TUTORS ==========

func TestPayTutorsRequiresStudentsCharged(t *testing.T) {
	svc, repo, _, processor := newTestService(t)
	p := preparedPayroll(t, svc)

	_, err := svc.PayTutors(context.Background(), p.ID)

	assert.ErrorIs(t, err, payroll.ErrMustChargeStudentsFirst)
	assert.Empty(t, processor.transfers)
	assert.Equal(t, p, repo.store[p.ID])
}

func TestPayTutorsHappyPath(t *testing.T) {
	svc, repo, _, processor := newTestService(t)
	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	paid, err := svc.PayTutors(context.Background(), p.ID)

	require.NoError(t, err)
	require.Len(t, paid.TutorsPayout, 1)
	entry := paid.TutorsPayout[0]
	assert.True(t, entry.Paid)
	assert.Equal(t, "tr_acct_tut-1", entry.TransferRef)
	assert.Equal(t, "po_acct_tut-1", entry.PayoutRef)
	assert.True(t, paid.TutorsPaid)
	assert.Equal(t, []string{"acct_tut-1"}, processor.transfers)
	assert.Equal(t, []string{"acct_tut-1"}, processor.payouts)
	assert.True(t, repo.store[p.ID].TutorsPaid)
}

func TestPayTutorsTransferFailureSkipsPayout(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	processor.failTransferFor["acct_tut-1"] = "insufficient funds"

	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	paid, err := svc.PayTutors(context.Background(), p.ID)

	require.NoError(t, err)
	entry := paid.TutorsPayout[0]
	assert.False(t, entry.Paid)
	assert.Equal(t, "insufficient funds", entry.Error)
	assert.Empty(t, entry.TransferRef)
	assert.Empty(t, processor.payouts)
	assert.False(t, paid.TutorsPaid)
}

func TestPayTutorsRetryDoesNotTransferTwice(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	processor.failPayoutFor["acct_tut-1"] = "bank unavailable"

	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	paid, err := svc.PayTutors(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "tr_acct_tut-1", paid.TutorsPayout[0].TransferRef)
	assert.False(t, paid.TutorsPayout[0].Paid)

	delete(processor.failPayoutFor, "acct_tut-1")
	paid, err = svc.PayTutors(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, paid.TutorsPayout[0].Paid)
	// One transfer total across both passes: the recorded reference guards it.
	assert.Len(t, processor.transfers, 1)
	assert.Len(t, processor.payouts, 1)
}

func TestPayTutorsSkipsPendingOnboarding(t *testing.T) {
	svc, _, companyRepo, processor := newTestService(t)
	companyRepo.tutors[0].SubAccountRef = ""

	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	paid, err := svc.PayTutors(context.Background(), p.ID)

	require.NoError(t, err)
	assert.False(t, paid.TutorsPayout[0].Paid)
	assert.Empty(t, processor.transfers)
	assert.False(t, paid.TutorsPaid)
}

// ========== PAY ADMIN ==========

func settleThroughTutors(t *testing.T, svc *PayrollServiceImpl) payroll.Payroll {
	t.Helper()
	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)
	paid, err := svc.PayTutors(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, paid.TutorsPaid)
	return paid
}

func TestPayAdminRequiresTutorsPaid(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	p := preparedPayroll(t, svc)
	_, err := svc.ChargeStudents(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.PayAdmin(context.Background(), p.ID)

	assert.ErrorIs(t, err, payroll.ErrMustPayTutorsFirst)
	assert.Empty(t, processor.transfers)
}

func TestPayAdminCompletesCycle(t *testing.T) {
	svc, repo, companyRepo, processor := newTestService(t)
	p := settleThroughTutors(t, svc)

	done, err := svc.PayAdmin(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, done.AdminPaid)
	assert.True(t, done.Completed)
	assert.Equal(t, "tr_acct_admin", done.AdminPayout.TransferRef)
	assert.Equal(t, "po_acct_admin", done.AdminPayout.PayoutRef)
	assert.Contains(t, processor.transfers, "acct_admin")
	assert.Contains(t, processor.payouts, "acct_admin")

	require.NotNil(t, companyRepo.lastPayoutSet)
	assert.Equal(t, at(t, "2026-02-01T00:00:00Z"), *companyRepo.lastPayoutSet)

	stored := repo.store[p.ID]
	assert.True(t, stored.Completed)
	assert.True(t, stored.AdminPaid)
}

func TestPayAdminTransferFailureLeavesCycleOpen(t *testing.T) {
	svc, repo, companyRepo, processor := newTestService(t)
	p := settleThroughTutors(t, svc)
	processor.failTransferFor["acct_admin"] = "platform balance too low"

	done, err := svc.PayAdmin(context.Background(), p.ID)

	require.NoError(t, err)
	assert.False(t, done.AdminPaid)
	assert.False(t, done.Completed)
	assert.Equal(t, "platform balance too low", done.AdminPayout.Error)
	assert.Nil(t, companyRepo.lastPayoutSet)
	assert.False(t, repo.store[p.ID].Completed)
}

func TestPayAdminWithoutSubAccountPersistsUnchanged(t *testing.T) {
	svc, _, companyRepo, processor := newTestService(t)
	companyRepo.admin.SubAccountRef = ""
	p := settleThroughTutors(t, svc)

	done, err := svc.PayAdmin(context.Background(), p.ID)

	require.NoError(t, err)
	assert.False(t, done.AdminPaid)
	assert.False(t, done.Completed)
	assert.True(t, done.AdminPayout.PendingOnboarding)
	assert.NotContains(t, processor.transfers, "")
	assert.Nil(t, companyRepo.lastPayoutSet)
}

func TestPayAdminRetryDoesNotTransferTwice(t *testing.T) {
	svc, _, _, processor := newTestService(t)
	p := settleThroughTutors(t, svc)
	processor.failPayoutFor["acct_admin"] = "bank unavailable"

	done, err := svc.PayAdmin(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, done.Completed)
	assert.Equal(t, "tr_acct_admin", done.AdminPayout.TransferRef)

	delete(processor.failPayoutFor, "acct_admin")
	done, err = svc.PayAdmin(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, done.Completed)
	adminTransfers := 0
	for _, ref := range processor.transfers {
		if ref == "acct_admin" {
			adminTransfers++
		}
	}
	assert.Equal(t, 1, adminTransfers)
}

func TestStagesRejectCompletedCycle(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	p := settleThroughTutors(t, svc)
	_, err := svc.PayAdmin(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.ChargeStudents(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyCompleted)

	_, err = svc.PayTutors(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyCompleted)

	_, err = svc.PayAdmin(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyCompleted)
}

// ========== READS ==========

func TestGetByIDUnknownPayroll(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestListByCompany(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	p := preparedPayroll(t, svc)

	list, err := svc.ListByCompany(context.Background(), payroll.ListFilter{CompanyCode: "ACME"})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}
