package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/pkg/database"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.Repository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetAdminByCompanyCode(ctx context.Context, companyCode string) (company.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, company_code, company_type, last_payout_date,
			   COALESCE(sub_account_ref, ''), subscription_status, created_at, updated_at
		FROM admins
		WHERE company_code = $1
	`

	var a company.Admin
	err := q.QueryRow(ctx, query, companyCode).Scan(
		&a.ID, &a.Name, &a.Email, &a.CompanyCode, &a.CompanyType, &a.LastPayoutDate,
		&a.SubAccountRef, &a.SubscriptionStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Admin{}, company.ErrAdminNotFound
		}
		return company.Admin{}, fmt.Errorf("failed to get admin: %w", err)
	}

	return a, nil
}

func (r *companyRepository) GetAdminByEmail(ctx context.Context, email string) (company.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, company_code, company_type, last_payout_date,
			   COALESCE(sub_account_ref, ''), COALESCE(password_hash, ''),
			   subscription_status, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var a company.Admin
	err := q.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.CompanyCode, &a.CompanyType, &a.LastPayoutDate,
		&a.SubAccountRef, &a.PasswordHash, &a.SubscriptionStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Admin{}, company.ErrAdminNotFound
		}
		return company.Admin{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return a, nil
}

func (r *companyRepository) GetAdminByID(ctx context.Context, id string) (company.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, email, company_code, company_type, last_payout_date,
			   COALESCE(sub_account_ref, ''), subscription_status, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	var a company.Admin
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Email, &a.CompanyCode, &a.CompanyType, &a.LastPayoutDate,
		&a.SubAccountRef, &a.SubscriptionStatus, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Admin{}, company.ErrAdminNotFound
		}
		return company.Admin{}, fmt.Errorf("failed to get admin by id: %w", err)
	}

	return a, nil
}

func (r *companyRepository) ListStudents(ctx context.Context, companyCode string) ([]company.Student, error) {
	return r.listRoster(ctx, companyCode, false)
}

func (r *companyRepository) ListIndividuals(ctx context.Context, companyCode string) ([]company.Student, error) {
	return r.listRoster(ctx, companyCode, true)
}

func (r *companyRepository) listRoster(ctx context.Context, companyCode string, individual bool) ([]company.Student, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, company_code, COALESCE(tutor_id, ''), COALESCE(tutor_name, ''),
			   session_starts, session_ends,
			   COALESCE(customer_ref, ''), has_default_payment_method,
			   COALESCE(pending_discount_ref, ''), created_at, updated_at
		FROM students
		WHERE company_code = $1 AND is_individual = $2
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, companyCode, individual)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []company.Student
	for rows.Next() {
		var s company.Student
		if err := rows.Scan(
			&s.ID, &s.Name, &s.CompanyCode, &s.TutorID, &s.TutorName,
			&s.SessionStarts, &s.SessionEnds,
			&s.CustomerRef, &s.HasDefaultPaymentMethod,
			&s.PendingDiscountRef, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	return students, nil
}

const tutorColumns = `
	id, name, company_code, price_per_session_cents, pay_per_hour_cents,
	COALESCE(sub_account_ref, ''), created_at, updated_at
`

func (r *companyRepository) ListTutors(ctx context.Context, companyCode string) ([]company.Tutor, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE company_code = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, companyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}
	defer rows.Close()

	var tutors []company.Tutor
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tutor: %w", err)
		}
		tutors = append(tutors, t)
	}

	return tutors, nil
}

func (r *companyRepository) GetTutorByID(ctx context.Context, id string, companyCode string) (company.Tutor, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE id = $1 AND company_code = $2`

	t, err := scanTutor(q.QueryRow(ctx, query, id, companyCode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Tutor{}, company.ErrTutorNotFound
		}
		return company.Tutor{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	return t, nil
}

func (r *companyRepository) SetTutorPricing(ctx context.Context, id string, companyCode string, pricing company.TutorPricing) (company.Tutor, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tutors
		SET price_per_session_cents = $3, pay_per_hour_cents = $4, updated_at = NOW()
		WHERE id = $1 AND company_code = $2
		RETURNING ` + tutorColumns

	t, err := scanTutor(q.QueryRow(ctx, query, id, companyCode, pricing.PricePerSessionCents, pricing.PayPerHourCents))
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Tutor{}, company.ErrTutorNotFound
		}
		return company.Tutor{}, fmt.Errorf("failed to set tutor pricing: %w", err)
	}

	return t, nil
}

func (r *companyRepository) SetLastPayoutDate(ctx context.Context, adminID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE admins
		SET last_payout_date = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, adminID, at).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.ErrAdminNotFound
		}
		return fmt.Errorf("failed to set last payout date: %w", err)
	}

	return nil
}

func (r *companyRepository) ClearPendingDiscount(ctx context.Context, studentID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE students
		SET pending_discount_ref = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, studentID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.ErrStudentNotFound
		}
		return fmt.Errorf("failed to clear pending discount: %w", err)
	}

	return nil
}

func scanTutor(row pgx.Row) (company.Tutor, error) {
	var t company.Tutor
	err := row.Scan(
		&t.ID, &t.Name, &t.CompanyCode,
		&t.Pricing.PricePerSessionCents, &t.Pricing.PayPerHourCents,
		&t.SubAccountRef, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return company.Tutor{}, err
	}
	return t, nil
}
