package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsportal/internal/models"
)

/*
AccountRepository cases:
 1. Create fills ID/CreatedAt
 2. Create on taken email -> ErrDuplicateEmail
 3. GetByEmail found (with phone) / not found -> nil, nil
 4. Activate affects a row / missing id -> ErrNotFound
 5. Delete missing id -> ErrNotFound
 6. List scans every row
*/

var accountCols = []string{"id", "email", "password_hash", "role", "is_active", "phone", "created_at"}

func setupAccountRepo(t *testing.T) (sqlmock.Sqlmock, AccountRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")
	t.Cleanup(func() { db.Close() })
	return mock, NewAccountRepository(db)
}

func TestAccountRepository_Create_Success(t *testing.T) {
	mock, repo := setupAccountRepo(t)
	created := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	acc := &models.Account{Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: models.RoleUser}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts (email, password_hash, role, is_active, phone)`)).
		WithArgs("a@x.com", "$2a$10$hash", "user", false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	require.NoError(t, repo.Create(context.Background(), acc))
	assert.Equal(t, 7, acc.ID)
	assert.Equal(t, created, acc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DatabaseError(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	mock, repo := setupAccountRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(3, "a@x.com", "hash", "admin", true, "+15550001111", now))

	acc, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, 3, acc.ID)
	assert.Equal(t, models.RoleAdmin, acc.Role)
	assert.True(t, acc.IsActive)
	require.NotNil(t, acc.Phone)
	assert.Equal(t, "+15550001111", *acc.Phone)
}

func TestAccountRepository_GetByEmail_NotFound(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email = \$1`).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	acc, err := repo.GetByEmail(context.Background(), "missing@x.com")
	assert.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepository_GetByID_NullPhone(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(4, "b@x.com", "hash", "user", false, nil, time.Now()))

	acc, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Nil(t, acc.Phone)
	assert.False(t, acc.HasPhone())
}

func TestAccountRepository_Activate(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET is_active = TRUE WHERE id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET is_active = TRUE WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Activate(context.Background(), 5))
	assert.ErrorIs(t, repo.Activate(context.Background(), 99), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete_NotFound(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 42), ErrNotFound)
}

func TestAccountRepository_List(t *testing.T) {
	mock, repo := setupAccountRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM accounts ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(1, "admin@example.com", "h1", "admin", true, nil, now).
			AddRow(2, "a@x.com", "h2", "user", false, "+15550002222", now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin@example.com", list[0].Email)
	assert.True(t, list[1].HasPhone())
}

func TestAccountRepository_UpdatePhone_Clear(t *testing.T) {
	mock, repo := setupAccountRepo(t)

	mock.ExpectExec(`UPDATE accounts SET phone = \$1 WHERE id = \$2`).
		WithArgs(nil, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePhone(context.Background(), 2, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
