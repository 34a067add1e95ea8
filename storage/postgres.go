package storage

import (
	"api/domain"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo wraps the Users table. The live game never touches it;
// it only backs the seeding routes.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (repo *PostgresRepo) CreateUser(ctx context.Context, name, role string) (int64, error) {
	row := repo.pool.QueryRow(ctx, "INSERT INTO users(name, role) VALUES($1, $2) RETURNING id", name, role)

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return id, nil
}

func (repo *PostgresRepo) GetUserById(ctx context.Context, id int64) (domain.User, error) {
	user := domain.User{Id: id}

	row := repo.pool.QueryRow(ctx, "SELECT name, role FROM users WHERE id = $1", id)

	if err := row.Scan(&user.Name, &user.Role); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}
	return user, nil
}

func (repo *PostgresRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := repo.pool.Query(ctx, "SELECT id, name, role FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Name, &user.Role); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return users, nil
}

func (repo *PostgresRepo) DeleteUsers(ctx context.Context) error {
	if _, err := repo.pool.Exec(ctx, "DELETE FROM users"); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}
