package repository

import (
	"context"
	"time"
)

// LoadStaffOrder 返回控制排班表中员工列顺序的显式 ID 列表
func (r *Repository) LoadStaffOrder(accountID string) ([]string, error) {
	query := `
		SELECT staff_id
		FROM staff_order
		WHERE account_id = $1
		ORDER BY position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order := []string{}
	for rows.Next() {
		var staffID string
		if err := rows.Scan(&staffID); err != nil {
			return nil, err
		}
		order = append(order, staffID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) SaveStaffOrder(accountID string, order []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先删除旧的顺序再整体插入
	query := `DELETE FROM staff_order WHERE account_id = $1`
	if _, err := tx.ExecContext(ctx, query, accountID); err != nil {
		return err
	}

	for position, staffID := range order {
		query := `
			INSERT INTO staff_order (account_id, staff_id, position)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, accountID, staffID, position); err != nil {
			return err
		}
	}

	return tx.Commit()
}
