package repository

import (
	"context"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

func (r *Repository) LoadRevenue(accountID string, fromDateKey string, toDateKey string) ([]*domain.DailyRevenue, error) {
	query := `
		SELECT date_key, projected_revenue, other_revenue, notes, version
		FROM daily_revenue
		WHERE account_id = $1 AND date_key >= $2 AND date_key <= $3
		ORDER BY date_key
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, accountID, fromDateKey, toDateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.DailyRevenue{}
	for rows.Next() {
		var entry domain.DailyRevenue
		dst := []any{&entry.DateKey, &entry.ProjectedRevenue, &entry.OtherRevenue, &entry.Notes, &entry.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) SaveRevenueEntry(accountID string, entry *domain.DailyRevenue) error {
	query := `
		INSERT INTO daily_revenue (account_id, date_key, projected_revenue, other_revenue, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, date_key) DO UPDATE
		SET
			projected_revenue = EXCLUDED.projected_revenue,
			other_revenue = EXCLUDED.other_revenue,
			notes = EXCLUDED.notes,
			version = daily_revenue.version + 1
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{accountID, entry.DateKey, entry.ProjectedRevenue, entry.OtherRevenue, entry.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&entry.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRevenueEntry(accountID string, dateKey string) error {
	query := `DELETE FROM daily_revenue WHERE account_id = $1 AND date_key = $2`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, accountID, dateKey); err != nil {
		return err
	}

	return nil
}
