package postgres

import (
	"context"
	"testing"
	"time"

	"teen-wallet-service/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.NewUserParams{
		ID:           domain.NewUserID(),
		FirstName:    "Ana",
		LastName:     "Garcia",
		BirthDate:    time.Date(2009, time.May, 20, 0, 0, 0, 0, time.UTC),
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	})
	require.NoError(t, err)
	return u
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "first_name", "last_name", "birth_date", "email", "password_hash"}).
		AddRow(u.ID().String(), u.FirstName(), u.LastName(), u.BirthDate(), u.Email(), u.PasswordHash())
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID().String(), u.FirstName(), u.LastName(), u.BirthDate(), u.Email(), u.PasswordHash()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID().String()).
		WillReturnRows(userRow(u))

	result, err := repo.FindByID(context.Background(), u.ID())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID(), result.ID())
	assert.Equal(t, u.Email(), result.Email())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs(u.Email()).
		WillReturnRows(userRow(u))

	result, err := repo.FindByEmail(context.Background(), u.Email())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.ID(), result.ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "birth_date", "email", "password_hash"}))

	result, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
