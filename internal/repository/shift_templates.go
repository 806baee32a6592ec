package repository

import (
	"context"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (r *Repository) LoadTemplates(accountID string) ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, role_id, role_code, role_color, start_time, end_time, created_at, version
		FROM shift_templates
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

	templates := []*domain.ShiftTemplate{}
	for rows.Next() {
		var template domain.ShiftTemplate
		dst := []any{
			&template.ID,
			&template.Name,
			&template.RoleID,
			&template.RoleCode,
			&template.RoleColor,
			&template.StartTime,
			&template.EndTime,
			&template.CreatedAt,
			&template.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, &template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetTemplateByID(accountID string, id string) (*domain.ShiftTemplate, error) {
	query := `
		SELECT name, role_id, role_code, role_color, start_time, end_time, created_at, version
		FROM shift_templates
		WHERE account_id = $1 AND id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	template := &domain.ShiftTemplate{
		ID: id,
	}

	dst := []any{
		&template.Name,
		&template.RoleID,
		&template.RoleCode,
		&template.RoleColor,
		&template.StartTime,
		&template.EndTime,
		&template.CreatedAt,
		&template.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, accountID, id).Scan(dst...); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) SaveTemplate(accountID string, template *domain.ShiftTemplate) error {
	query := `
		INSERT INTO shift_templates (account_id, id, name, role_id, role_code, role_color, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, id) DO UPDATE
		SET
			name = EXCLUDED.name,
			role_id = EXCLUDED.role_id,
			role_code = EXCLUDED.role_code,
			role_color = EXCLUDED.role_color,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			version = shift_templates.version + 1
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		accountID,
		template.ID,
		template.Name,
		template.RoleID,
		template.RoleCode,
		template.RoleColor,
		template.StartTime,
		template.EndTime,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&template.CreatedAt, &template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTemplate(accountID string, id string) error {
	query := `DELETE FROM shift_templates WHERE account_id = $1 AND id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, accountID, id); err != nil {
		return err
	}

	return nil
}
