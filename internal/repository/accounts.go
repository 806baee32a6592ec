package repository

import (
	"context"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (r *Repository) GetAccountByID(id string) (*domain.Account, error) {
	query := `
		SELECT name, owner_email, created_at, version
		FROM accounts
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		ID: id,
	}

	dst := []any{&account.Name, &account.OwnerEmail, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, owner_email)
		VALUES ($1, $2, $3)
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, account.ID, account.Name, account.OwnerEmail).Scan(&account.CreatedAt, &account.Version); err != nil {
		return err
	}

	return nil
}
