package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"smsportal/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, acc *models.Account) error
	GetByID(ctx context.Context, id int) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Activate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.Account, error)
	UpdatePhone(ctx context.Context, id int, phone *string) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `id, email, password_hash, role, is_active, phone, created_at`

// Create inserts acc and fills ID and CreatedAt. A taken email yields ErrDuplicateEmail.
func (r *accountRepository) Create(ctx context.Context, acc *models.Account) error {
	const q = `
		INSERT INTO accounts (email, password_hash, role, is_active, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, q,
		acc.Email, acc.PasswordHash, string(acc.Role), acc.IsActive, nullString(acc.Phone),
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	acc, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("account get by id: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	acc, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("account get by email: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) Activate(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE accounts SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("account activate: %w", err)
	}
	return expectOneRow(res)
}

func (r *accountRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("account delete: %w", err)
	}
	return expectOneRow(res)
}

func (r *accountRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("account list: %w", err)
	}
	defer rows.Close()

	var res []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("account list scan: %w", err)
		}
		res = append(res, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account list: %w", err)
	}
	return res, nil
}

func (r *accountRepository) UpdatePhone(ctx context.Context, id int, phone *string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE accounts SET phone = $1 WHERE id = $2`, nullString(phone), id)
	if err != nil {
		return fmt.Errorf("account update phone: %w", err)
	}
	return expectOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (*models.Account, error) {
	var (
		acc   models.Account
		role  string
		phone sql.NullString
	)
	if err := s.Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &role, &acc.IsActive, &phone, &acc.CreatedAt); err != nil {
		return nil, err
	}
	acc.Role = models.Role(role)
	if phone.Valid {
		p := phone.String
		acc.Phone = &p
	}
	return &acc, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
