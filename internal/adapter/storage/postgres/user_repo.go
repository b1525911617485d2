package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teen-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id::text, first_name, last_name, birth_date, email, password_hash`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, first_name, last_name, birth_date, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := r.pool.Exec(ctx, query,
		u.ID().String(), u.FirstName(), u.LastName(), u.BirthDate(), u.Email(), u.PasswordHash(),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id.String()))
}

// FindByEmail fetches a user by email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		rawID        string
		firstName    string
		lastName     string
		birthDate    time.Time
		email        string
		passwordHash string
	)
	err := row.Scan(&rawID, &firstName, &lastName, &birthDate, &email, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	return domain.NewUser(domain.NewUserParams{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		BirthDate:    birthDate,
		Email:        email,
		PasswordHash: passwordHash,
	})
}
