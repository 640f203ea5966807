package payroll

import (
	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
)

// NewPayroll wraps a freshly computed ledger into a brand-new cycle for a
// company with no open payroll.
func NewPayroll(admin company.Admin, fresh Ledger) payroll.Payroll {
	return payroll.Payroll{
		CompanyCode:    admin.CompanyCode,
		AdminID:        admin.ID,
		StudentsDebt:   fresh.StudentsDebt,
		TutorsPayout:   fresh.TutorsPayout,
		AdminPayout:    fresh.AdminPayout,
		TutorsNotFound: fresh.TutorsNotFound,
	}
}

// Reconcile merges a freshly computed ledger into a previously persisted,
// partially paid cycle. This is what makes payroll preparation idempotent and
// safely re-runnable after a crash mid-cycle.
//
// Each sub-ledger is merged independently. A sub-ledger whose completion flag
// is already set is kept verbatim: paid work is immutable and fresh figures
// are ignored. Otherwise, line items already marked paid are carried over
// untouched, unpaid items are replaced by the fresh entry with the same
// student/tutor id, unpaid items with no fresh match are dropped (the
// underlying activity no longer qualifies), and fresh entries with no
// persisted counterpart are appended as new unpaid items so new billable
// activity is never lost. The admin payout is kept once it is paid or a
// transfer reference exists, because money has already moved.
func Reconcile(prev payroll.Payroll, fresh Ledger) payroll.Payroll {
	merged := prev

	if !prev.StudentsCharged {
		merged.StudentsDebt = mergeStudents(prev.StudentsDebt, fresh.StudentsDebt)
	}

	if !prev.TutorsPaid {
		merged.TutorsPayout = mergeTutors(prev.TutorsPayout, fresh.TutorsPayout)
	}

	if !prev.AdminPaid && prev.AdminPayout.TransferRef == "" {
		merged.AdminPayout = fresh.AdminPayout
	}

	merged.TutorsNotFound = fresh.TutorsNotFound

	return merged
}

func mergeStudents(persisted, fresh []payroll.StudentDebt) []payroll.StudentDebt {
	merged := make([]payroll.StudentDebt, 0, len(fresh))
	seen := make(map[string]bool, len(persisted))

	for _, item := range persisted {
		seen[item.StudentID] = true

		if item.Paid {
			merged = append(merged, item)
			continue
		}
		if match := payroll.FindStudentDebt(fresh, item.StudentID); match != nil {
			merged = append(merged, *match)
		}
		// No fresh match: the item is dropped.
	}

	for _, item := range fresh {
		if !seen[item.StudentID] {
			merged = append(merged, item)
		}
	}

	return merged
}

func mergeTutors(persisted, fresh []payroll.TutorPayout) []payroll.TutorPayout {
	merged := make([]payroll.TutorPayout, 0, len(fresh))
	seen := make(map[string]bool, len(persisted))

	for _, item := range persisted {
		seen[item.TutorID] = true

		if item.Paid {
			merged = append(merged, item)
			continue
		}
		if match := payroll.FindTutorPayout(fresh, item.TutorID); match != nil {
			merged = append(merged, *match)
		}
	}

	for _, item := range fresh {
		if !seen[item.TutorID] {
			merged = append(merged, item)
		}
	}

	return merged
}
