package payroll

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
)

// Ledger holds the freshly computed figures for one payroll run before they
// are reconciled with any open cycle.
type Ledger struct {
	StudentsDebt   []payroll.StudentDebt
	TutorsPayout   []payroll.TutorPayout
	AdminPayout    payroll.AdminPayout
	TutorsNotFound []payroll.TutorNotFound
}

// BuildLedger tallies billable hours for every roster member and computes
// per-student debt, per-tutor payout and the aggregate admin profit.
//
// Hours are accumulated unbounded when the admin has never been paid out, or
// clipped to [lastPayoutDate, now) otherwise. Members whose tutor reference
// does not resolve are collected into TutorsNotFound and produce no debt or
// payout entry: the business rule is to never bill for unverifiable work.
// Tutor payouts are consolidated so each tutor gets exactly one entry per
// cycle no matter how many students they taught.
func BuildLedger(admin company.Admin, roster []company.Student, tutors []company.Tutor, now time.Time) Ledger {
	tutorsByID := lo.KeyBy(tutors, func(t company.Tutor) string { return t.ID })
	// Name resolution is a fallback for roster records that predate tutor id
	// stamping.
	tutorsByName := lo.KeyBy(tutors, func(t company.Tutor) string { return t.Name })

	var (
		studentsDebt []payroll.StudentDebt
		totalProfit  int64
	)

	// Consolidation buckets, keyed by tutor id; order follows first
	// appearance in the roster.
	payoutIdx := make(map[string]int)
	var tutorsPayout []payroll.TutorPayout

	notFoundIdx := make(map[string]int)
	var tutorsNotFound []payroll.TutorNotFound

	for _, student := range roster {
		if len(student.SessionStarts) == 0 || len(student.SessionEnds) == 0 {
			continue
		}

		var hours float64
		if admin.LastPayoutDate == nil {
			hours = HoursSpent(student.SessionStarts, student.SessionEnds)
		} else {
			hours = HoursSpentInRange(student.SessionStarts, student.SessionEnds, *admin.LastPayoutDate, now)
		}

		tutor, ref, ok := resolveTutor(student, tutorsByID, tutorsByName)
		if !ok {
			i, seen := notFoundIdx[ref]
			if !seen {
				i = len(tutorsNotFound)
				notFoundIdx[ref] = i
				tutorsNotFound = append(tutorsNotFound, payroll.TutorNotFound{TutorRef: ref})
			}
			tutorsNotFound[i].Students = append(tutorsNotFound[i].Students, payroll.UnmatchedStudent{
				Name:  student.Name,
				Hours: hours,
			})
			continue
		}

		debtCents := hoursTimesCents(hours, tutor.Pricing.PricePerSessionCents)
		payCents := hoursTimesCents(hours, tutor.Pricing.PayPerHourCents)
		profitCents := adminProfitCents(tutor.Pricing.PricePerSessionCents, tutor.Pricing.PayPerHourCents, debtCents)
		totalProfit += profitCents

		studentsDebt = append(studentsDebt, payroll.StudentDebt{
			StudentID:         student.ID,
			StudentName:       student.Name,
			TutorID:           tutor.ID,
			TutorName:         tutor.Name,
			Hours:             hours,
			DebtCents:         debtCents,
			TutorPriceCents:   tutor.Pricing.PricePerSessionCents,
			AdminProfitCents:  profitCents,
			CustomerRef:       student.CustomerRef,
			PendingDiscount:   student.PendingDiscountRef,
			PendingOnboarding: !student.HasDefaultPaymentMethod,
		})

		if i, seen := payoutIdx[tutor.ID]; seen {
			tutorsPayout[i].PayoutCents += payCents
			tutorsPayout[i].TotalHours += hours
		} else {
			payoutIdx[tutor.ID] = len(tutorsPayout)
			tutorsPayout = append(tutorsPayout, payroll.TutorPayout{
				TutorID:           tutor.ID,
				TutorName:         tutor.Name,
				PayoutCents:       payCents,
				TotalHours:        hours,
				PendingOnboarding: tutor.SubAccountRef == "",
				SubAccountRef:     tutor.SubAccountRef,
			})
		}
	}

	return Ledger{
		StudentsDebt: studentsDebt,
		TutorsPayout: tutorsPayout,
		AdminPayout: payroll.AdminPayout{
			TotalProfitCents:  totalProfit,
			SubAccountRef:     admin.SubAccountRef,
			PendingOnboarding: admin.SubAccountRef == "",
		},
		TutorsNotFound: tutorsNotFound,
	}
}

// resolveTutor finds the roster member's tutor, preferring the id reference
// and falling back to the legacy name reference. The returned ref is whatever
// reference was used, for unmatched grouping.
func resolveTutor(student company.Student, byID, byName map[string]company.Tutor) (company.Tutor, string, bool) {
	if student.TutorID != "" {
		t, ok := byID[student.TutorID]
		return t, student.TutorID, ok
	}
	t, ok := byName[student.TutorName]
	return t, student.TutorName, ok
}

// hoursTimesCents multiplies fractional hours by a cent rate, truncating to
// whole cents.
func hoursTimesCents(hours float64, rateCents int64) int64 {
	return decimal.NewFromFloat(hours).Mul(decimal.NewFromInt(rateCents)).IntPart()
}

// adminProfitCents computes the margin attributed to the admin for one debt
// entry. The percentage is the symmetric spread between the charge and pay
// rates, |price-pay| over their mean; the amount is that share of the
// student's debt, truncated to whole cents.
func adminProfitCents(priceCents, payCents, debtCents int64) int64 {
	mean := decimal.NewFromInt(priceCents).Add(decimal.NewFromInt(payCents)).Div(decimal.NewFromInt(2))
	if mean.IsZero() {
		return 0
	}

	spread := decimal.NewFromInt(priceCents).Sub(decimal.NewFromInt(payCents)).Abs()
	percentage := spread.Div(mean).Mul(decimal.NewFromInt(100))

	return percentage.Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(debtCents)).IntPart()
}
