package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
	"github.com/tutorbase/billing-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	id, company_code, admin_id, version, completed,
	students_charged, tutors_paid, admin_paid,
	students_debt, tutors_payout, admin_payout, tutors_not_found,
	created_at, updated_at
`

func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	studentsJSON, _ := json.Marshal(p.StudentsDebt)
	tutorsJSON, _ := json.Marshal(p.TutorsPayout)
	adminJSON, _ := json.Marshal(p.AdminPayout)
	notFoundJSON, _ := json.Marshal(p.TutorsNotFound)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}

	query := `
		INSERT INTO payrolls (
			id, company_code, admin_id, version,
			students_debt, tutors_payout, admin_payout, tutors_not_found
		) VALUES ($1, $2, $3, 1, $4, $5, $6, $7)
		RETURNING ` + payrollColumns

	row := q.QueryRow(ctx, query, id.String(), p.CompanyCode, p.AdminID, studentsJSON, tutorsJSON, adminJSON, notFoundJSON)

	created, err := scanPayroll(row)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetOpenByCompanyCode(ctx context.Context, companyCode string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	// At most one open cycle per company exists, enforced by a partial unique
	// index on (company_code) WHERE NOT completed.
	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE company_code = $1 AND NOT completed
		ORDER BY created_at DESC
		LIMIT 1
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, companyCode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrNoOpenPayroll
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get open payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListByCompanyCode(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE company_code = $1`
	if filter.OnlyOpen {
		query += " AND NOT completed"
	}
	if filter.OnlyCompleted {
		query += " AND completed"
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, filter.CompanyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	return payrolls, nil
}

func (r *payrollRepository) Update(ctx context.Context, id string, version int64, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	studentsJSON, _ := json.Marshal(p.StudentsDebt)
	tutorsJSON, _ := json.Marshal(p.TutorsPayout)
	adminJSON, _ := json.Marshal(p.AdminPayout)
	notFoundJSON, _ := json.Marshal(p.TutorsNotFound)

	query := `
		UPDATE payrolls
		SET students_debt = $3, tutors_payout = $4, admin_payout = $5, tutors_not_found = $6,
			completed = $7, students_charged = $8, tutors_paid = $9, admin_paid = $10,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + payrollColumns

	row := q.QueryRow(ctx, query, id, version,
		studentsJSON, tutorsJSON, adminJSON, notFoundJSON,
		p.Completed, p.StudentsCharged, p.TutorsPaid, p.AdminPaid,
	)

	updated, err := scanPayroll(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, r.staleWriteError(ctx, id)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}

	return updated, nil
}

func (r *payrollRepository) UpdateStudentsDebt(ctx context.Context, id string, version int64, debts []payroll.StudentDebt) (payroll.Payroll, error) {
	return r.updateLedgerColumn(ctx, id, version, "students_debt", debts)
}

func (r *payrollRepository) UpdateTutorsPayout(ctx context.Context, id string, version int64, payouts []payroll.TutorPayout) (payroll.Payroll, error) {
	return r.updateLedgerColumn(ctx, id, version, "tutors_payout", payouts)
}

func (r *payrollRepository) UpdateAdminPayout(ctx context.Context, id string, version int64, payout payroll.AdminPayout) (payroll.Payroll, error) {
	return r.updateLedgerColumn(ctx, id, version, "admin_payout", payout)
}

// updateLedgerColumn writes one JSONB sub-ledger under the optimistic version
// check. The column name is always one of our own constants, never input.
func (r *payrollRepository) updateLedgerColumn(ctx context.Context, id string, version int64, column string, value any) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	payload, err := json.Marshal(value)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to marshal %s: %w", column, err)
	}

	query := fmt.Sprintf(`
		UPDATE payrolls
		SET %s = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING `+payrollColumns, column)

	updated, err := scanPayroll(q.QueryRow(ctx, query, id, version, payload))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, r.staleWriteError(ctx, id)
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update %s: %w", column, err)
	}

	return updated, nil
}

func (r *payrollRepository) SetStudentsCharged(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "students_charged")
}

func (r *payrollRepository) SetTutorsPaid(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "tutors_paid")
}

func (r *payrollRepository) SetAdminPaid(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "admin_paid")
}

func (r *payrollRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "completed")
}

// setFlag flips a stage flag. Flags only ever move from false to true, so no
// version check is needed: the write is idempotent.
func (r *payrollRepository) setFlag(ctx context.Context, id string, column string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE payrolls
		SET %s = true, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`, column)

	var updatedID string
	err := q.QueryRow(ctx, query, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to set %s: %w", column, err)
	}

	return nil
}

// staleWriteError decides why a version-guarded update matched no rows.
func (r *payrollRepository) staleWriteError(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payrolls WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payroll existence: %w", err)
	}
	if exists {
		return payroll.ErrVersionConflict
	}
	return payroll.ErrPayrollNotFound
}

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var studentsBytes, tutorsBytes, adminBytes, notFoundBytes []byte

	err := row.Scan(
		&p.ID, &p.CompanyCode, &p.AdminID, &p.Version, &p.Completed,
		&p.StudentsCharged, &p.TutorsPaid, &p.AdminPaid,
		&studentsBytes, &tutorsBytes, &adminBytes, &notFoundBytes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}

	_ = json.Unmarshal(studentsBytes, &p.StudentsDebt)
	_ = json.Unmarshal(tutorsBytes, &p.TutorsPayout)
	_ = json.Unmarshal(adminBytes, &p.AdminPayout)
	_ = json.Unmarshal(notFoundBytes, &p.TutorsNotFound)

	return p, nil
}
