package payroll

import "context"

// Repository defines persistence for payroll cycles. All ledger mutations are
// version-checked: callers pass the version they read and get
// ErrVersionConflict when another writer got there first.
type Repository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	// GetOpenByCompanyCode returns the company's single not-completed cycle,
	// or ErrNoOpenPayroll.
	GetOpenByCompanyCode(ctx context.Context, companyCode string) (Payroll, error)
	ListByCompanyCode(ctx context.Context, filter ListFilter) ([]Payroll, error)
	// Update replaces the full mutable state of an existing cycle.
	Update(ctx context.Context, id string, version int64, p Payroll) (Payroll, error)

	// Field-level partial updates used by the payout stages.
	UpdateStudentsDebt(ctx context.Context, id string, version int64, debts []StudentDebt) (Payroll, error)
	UpdateTutorsPayout(ctx context.Context, id string, version int64, payouts []TutorPayout) (Payroll, error)
	UpdateAdminPayout(ctx context.Context, id string, version int64, payout AdminPayout) (Payroll, error)

	SetStudentsCharged(ctx context.Context, id string) error
	SetTutorsPaid(ctx context.Context, id string) error
	SetAdminPaid(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string) error
}

// PaymentProcessor is the payment collaborator the payout stages drive. A
// failed call is an error result scoped to one line item, never a reason to
// abort the batch.
type PaymentProcessor interface {
	// CreateInvoice drafts and finalizes an invoice for the customer,
	// applying discountRef when non-empty, and returns the invoice reference.
	CreateInvoice(ctx context.Context, customerRef string, amountCents int64, description, discountRef string) (string, error)
	// ChargeInvoice collects the invoice from the customer's default payment
	// method.
	ChargeInvoice(ctx context.Context, invoiceRef string) error
	// Transfer moves funds from the platform account to a connected
	// sub-account and returns the transfer reference.
	Transfer(ctx context.Context, subAccountRef string, amountCents int64, currency string) (string, error)
	// Payout sends funds from a sub-account to its default bank account and
	// returns the payout reference.
	Payout(ctx context.Context, subAccountRef string, amountCents int64, currency string) (string, error)
}
