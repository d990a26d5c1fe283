package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/countdown-service/internal/domain"
)

// UserRepository is the live user directory the authorization gate resolves
// against on every request.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, username string) error
	DeleteAllExcept(ctx context.Context, keepUsername string) error
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `username, email, password_hash, approved, frozen, is_admin,
        is_super_admin, capabilities, security_question, security_answer_hash,
        created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, approved, frozen,
            is_admin, is_super_admin, capabilities, security_question, security_answer_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Approved,
		user.Frozen,
		user.IsAdmin,
		user.IsSuperAdmin,
		user.Capabilities,
		user.SecurityQuestion,
		user.SecurityAnswerHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, password_hash=$2, approved=$3, frozen=$4,
            is_admin=$5, is_super_admin=$6, capabilities=$7,
            security_question=$8, security_answer_hash=$9, updated_at=NOW()
        WHERE username=$10`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Approved,
		user.Frozen,
		user.IsAdmin,
		user.IsSuperAdmin,
		user.Capabilities,
		user.SecurityQuestion,
		user.SecurityAnswerHash,
		user.Username,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Approved,
		&user.Frozen,
		&user.IsAdmin,
		&user.IsSuperAdmin,
		&user.Capabilities,
		&user.SecurityQuestion,
		&user.SecurityAnswerHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Approved,
			&user.Frozen,
			&user.IsAdmin,
			&user.IsSuperAdmin,
			&user.Capabilities,
			&user.SecurityQuestion,
			&user.SecurityAnswerHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteAllExcept supports the administrative reset, which reseeds the
// default admin afterwards.
func (r *userRepository) DeleteAllExcept(ctx context.Context, keepUsername string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username <> $1`, keepUsername)
	return err
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
