package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresRepository stores accounts in the accounts table and their refresh
// tokens in refresh_tokens. The token column's unique constraint is the
// secondary index; the serial id keeps insertion order.
type PostgresRepository struct {
	db dbx.DB
}

func NewPostgresRepository(db dbx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO accounts (email, user_id, password_hash)
			 VALUES ($1, $2, $3)
			 `
		if _, err := tx.ExecContext(ctx, query, account.Email, account.UserID, account.PasswordHash); err != nil {
			return err
		}

		for _, token := range account.RefreshTokens {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO refresh_tokens (token, email) VALUES ($1, $2)`,
				token, account.Email); err != nil {
				return err
			}
		}
		return nil
	})

	return mapPgError(err)
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT email, user_id, password_hash, created_at FROM accounts
		 WHERE email = $1
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.Email, &a.UserID, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT token FROM refresh_tokens WHERE email = $1 ORDER BY id`, email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.RefreshTokens = append(a.RefreshTokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

// AppendRefreshToken inserts the token only if the account exists; the
// insert is a single statement so concurrent appends never lose each other.
func (r *PostgresRepository) AppendRefreshToken(ctx context.Context, email, token string) error {
	query :=
		`INSERT INTO refresh_tokens (token, email)
		 SELECT $1, email FROM accounts WHERE email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, token, email)
	if err != nil {
		return mapPgError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Account, error) {
	var email string
	err := r.db.QueryRowContext(ctx,
		`SELECT email FROM refresh_tokens WHERE token = $1`, token).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx, email)
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}
