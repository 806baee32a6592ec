package repository

import (
	"context"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (r *Repository) GetAllRoles(accountID string) ([]*domain.Role, error) {
	query := `
		SELECT id, name, code, color, created_at, version
		FROM roles
		WHERE account_id = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []*domain.Role{}
	for rows.Next() {
		var role domain.Role
		dst := []any{&role.ID, &role.Name, &role.Code, &role.Color, &role.CreatedAt, &role.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *Repository) GetRoleByID(accountID string, id string) (*domain.Role, error) {
	query := `
		SELECT name, code, color, created_at, version
		FROM roles
		WHERE account_id = $1 AND id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	role := &domain.Role{
		ID: id,
	}

	dst := []any{&role.Name, &role.Code, &role.Color, &role.CreatedAt, &role.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, accountID, id).Scan(dst...); err != nil {
		return nil, err
	}

	return role, nil
}

func (r *Repository) CreateRole(accountID string, role *domain.Role) error {
	query := `
		INSERT INTO roles (account_id, id, name, code, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{accountID, role.ID, role.Name, role.Code, role.Color}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&role.CreatedAt, &role.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRole(accountID string, role *domain.Role) error {
	// 历史排班中的角色编号和颜色是涂抹时拷贝的，更新角色目录不会动它们
	query := `
		UPDATE roles
		SET name = $1, code = $2, color = $3, version = version + 1
		WHERE account_id = $4 AND id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{role.Name, role.Code, role.Color, accountID, role.ID, role.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&role.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRole(accountID string, id string) error {
	query := `DELETE FROM roles WHERE account_id = $1 AND id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, accountID, id); err != nil {
		return err
	}

	return nil
}
