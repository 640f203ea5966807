package payroll

import (
	"time"
)

// StudentDebt is one billable line item: what a single student owes for the
// hours a tutor spent with them during the cycle.
type StudentDebt struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	TutorID     string  `json:"tutor_id"`
	TutorName   string  `json:"tutor_name"`
	Hours       float64 `json:"hours"`
	// DebtCents = Hours x the tutor's price per session, in cents.
	DebtCents int64 `json:"debt_cents"`
	// TutorPriceCents is the tutor's charge rate snapshotted at computation
	// time so later rate changes never rewrite an open cycle.
	TutorPriceCents   int64  `json:"tutor_price_cents"`
	AdminProfitCents  int64  `json:"admin_profit_cents"`
	CustomerRef       string `json:"customer_ref"`
	InvoiceRef        string `json:"invoice_ref"`
	PendingDiscount   string `json:"pending_discount,omitempty"`
	PendingOnboarding bool   `json:"pending_onboarding"`
	Paid              bool   `json:"paid"`
	Error             string `json:"error,omitempty"`
}

// TutorPayout is the consolidated payout owed to one tutor for the cycle.
// There is exactly one entry per tutor regardless of how many students they
// taught.
type TutorPayout struct {
	TutorID           string  `json:"tutor_id"`
	TutorName         string  `json:"tutor_name"`
	PayoutCents       int64   `json:"payout_cents"`
	TotalHours        float64 `json:"total_hours"`
	PendingOnboarding bool    `json:"pending_onboarding"`
	SubAccountRef     string  `json:"sub_account_ref"`
	TransferRef       string  `json:"transfer_ref"`
	PayoutRef         string  `json:"payout_ref"`
	Paid              bool    `json:"paid"`
	Error             string  `json:"error,omitempty"`
}

// AdminPayout is the single profit line item for the company admin.
type AdminPayout struct {
	TotalProfitCents  int64  `json:"total_profit_cents"`
	SubAccountRef     string `json:"sub_account_ref"`
	TransferRef       string `json:"transfer_ref"`
	PayoutRef         string `json:"payout_ref"`
	PendingOnboarding bool   `json:"pending_onboarding"`
	Error             string `json:"error,omitempty"`
}

// UnmatchedStudent is a student whose hours could not be attributed because
// their recorded tutor reference did not resolve.
type UnmatchedStudent struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// TutorNotFound groups the students affected by one unresolvable tutor
// reference. It exists so inconsistent roster data surfaces in the payroll
// instead of silently dropping billable hours.
type TutorNotFound struct {
	TutorRef string             `json:"tutor_ref"`
	Students []UnmatchedStudent `json:"students"`
}

// Payroll is one billing period's aggregate for a company. It is created by
// payroll preparation, mutated only by reconciliation and the three payout
// stages, and never deleted: completed cycles stay behind as the audit trail.
type Payroll struct {
	ID          string `json:"id"`
	CompanyCode string `json:"company_code"`
	AdminID     string `json:"admin_id"`
	// Version guards read-modify-write of the ledgers. Every persisted
	// mutation must carry the version it read; a stale version fails with
	// ErrVersionConflict.
	Version         int64           `json:"version"`
	Completed       bool            `json:"completed"`
	StudentsCharged bool            `json:"students_charged"`
	TutorsPaid      bool            `json:"tutors_paid"`
	AdminPaid       bool            `json:"admin_paid"`
	StudentsDebt    []StudentDebt   `json:"students_debt"`
	TutorsPayout    []TutorPayout   `json:"tutors_payout"`
	AdminPayout     AdminPayout     `json:"admin_payout"`
	TutorsNotFound  []TutorNotFound `json:"tutors_not_found"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AllStudentsPaid reports whether every student line item is settled. True
// for an empty ledger: nothing left to charge means the stage is done.
func (p *Payroll) AllStudentsPaid() bool {
	for _, s := range p.StudentsDebt {
		if !s.Paid {
			return false
		}
	}
	return true
}

// AllTutorsPaid reports whether every tutor line item is settled.
func (p *Payroll) AllTutorsPaid() bool {
	for _, t := range p.TutorsPayout {
		if !t.Paid {
			return false
		}
	}
	return true
}

// FindStudentDebt returns the line item for a student id, or nil.
func FindStudentDebt(debts []StudentDebt, studentID string) *StudentDebt {
	for i := range debts {
		if debts[i].StudentID == studentID {
			return &debts[i]
		}
	}
	return nil
}

// FindTutorPayout returns the line item for a tutor id, or nil.
func FindTutorPayout(payouts []TutorPayout, tutorID string) *TutorPayout {
	for i := range payouts {
		if payouts[i].TutorID == tutorID {
			return &payouts[i]
		}
	}
	return nil
}
