package repository

import (
	"context"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (r *Repository) GetAllStaff(accountID string) ([]*domain.Staff, error) {
	query := `
		SELECT id, name, hourly_rate, weekend_rate, employment_type, is_active, created_at, version
		FROM staff
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

	staffList := []*domain.Staff{}
	for rows.Next() {
		var staff domain.Staff
		dst := []any{
			&staff.ID,
			&staff.Name,
			&staff.HourlyRate,
			&staff.WeekendRate,
			&staff.EmploymentType,
			&staff.IsActive,
			&staff.CreatedAt,
			&staff.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, &staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

func (r *Repository) GetStaffByID(accountID string, id string) (*domain.Staff, error) {
	query := `
		SELECT name, hourly_rate, weekend_rate, employment_type, is_active, created_at, version
		FROM staff
		WHERE account_id = $1 AND id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.Staff{
		ID: id,
	}

	dst := []any{
		&staff.Name,
		&staff.HourlyRate,
		&staff.WeekendRate,
		&staff.EmploymentType,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, accountID, id).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) CreateStaff(accountID string, staff *domain.Staff) error {
	query := `
		INSERT INTO staff (account_id, id, name, hourly_rate, weekend_rate, employment_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{accountID, staff.ID, staff.Name, staff.HourlyRate, staff.WeekendRate, staff.EmploymentType}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	staff.IsActive = true
	return nil
}

func (r *Repository) UpdateStaff(accountID string, staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			name = $1,
			hourly_rate = $2,
			weekend_rate = $3,
			employment_type = $4,
			version = version + 1
		WHERE account_id = $5 AND id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{staff.Name, staff.HourlyRate, staff.WeekendRate, staff.EmploymentType, accountID, staff.ID, staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&staff.Version); err != nil {
		return err
	}

	return nil
}

// ArchiveStaff 把员工标记为归档（软删除），历史排班和成本归属保持不变
func (r *Repository) ArchiveStaff(accountID string, id string) error {
	return r.setStaffActive(accountID, id, false)
}

func (r *Repository) RestoreStaff(accountID string, id string) error {
	return r.setStaffActive(accountID, id, true)
}

func (r *Repository) setStaffActive(accountID string, id string, active bool) error {
	query := `
		UPDATE staff
		SET is_active = $1, version = version + 1
		WHERE account_id = $2 AND id = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, active, accountID, id).Scan(&version); err != nil {
		return err
	}

	return nil
}
