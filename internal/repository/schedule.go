package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/syncer"
)

// 分页读取排班槽位时每页的行数
const schedulePageSize = 1000

// LoadSchedule 加载某账户的全部排班槽位。
// 按 (日期, 员工, 时间) 的稳定顺序分页读取，循环取完所有行之后才返回，
// 保证调用方拿到的永远是完整的排班表
func (r *Repository) LoadSchedule(ctx context.Context, accountID string) (domain.Schedule, error) {
	slots := domain.Schedule{}
	lastDate, lastStaff, lastTime := "", "", ""

	for {
		query := `
			SELECT date_key, staff_id, time_slot, role_id, role_code, role_color
			FROM schedule_slots
			WHERE account_id = $1 AND (date_key, staff_id, time_slot) > ($2, $3, $4)
			ORDER BY date_key, staff_id, time_slot
			LIMIT $5
		`

		pageCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)

		rows, err := r.dbpool.QueryContext(pageCtx, query, accountID, lastDate, lastStaff, lastTime, schedulePageSize)
		if err != nil {
			cancel()
			return nil, err
		}

		count := 0
		for rows.Next() {
			var dateKey, staffID, timeSlot string
			var assignment domain.Assignment

			dst := []any{&dateKey, &staffID, &timeSlot, &assignment.RoleID, &assignment.RoleCode, &assignment.RoleColor}
			if err := rows.Scan(dst...); err != nil {
				rows.Close()
				cancel()
				return nil, err
			}

			slots[domain.EncodeSlotKey(dateKey, staffID, timeSlot)] = assignment
			lastDate, lastStaff, lastTime = dateKey, staffID, timeSlot
			count++
		}

		if err := rows.Err(); err != nil {
			rows.Close()
			cancel()
			return nil, err
		}
		rows.Close()
		cancel()

		if count < schedulePageSize {
			break
		}
	}

	return slots, nil
}

// SaveScheduleFull 用给定的排班表整体替换某账户的远端状态，
// 只在还没有已确认基线的时候使用
func (r *Repository) SaveScheduleFull(ctx context.Context, accountID string, slots domain.Schedule) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM schedule_slots WHERE account_id = $1`
	if _, err := tx.ExecContext(ctx, query, accountID); err != nil {
		return err
	}

	for key, assignment := range slots {
		if err := insertSlot(ctx, tx, accountID, key, assignment); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveScheduleDelta 只应用 desired 相对于 baseline 的新增/修改/删除差异。
// 在同一个事务里先删后写，删除按批次执行以尊重单次操作数量上限
func (r *Repository) SaveScheduleDelta(ctx context.Context, accountID string, desired domain.Schedule, baseline domain.Schedule) error {
	delta := syncer.Diff(desired, baseline)
	if delta.Empty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	batchSize := r.cfg.Sync.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	for start := 0; start < len(delta.Deletes); start += batchSize {
		end := start + batchSize
		if end > len(delta.Deletes) {
			end = len(delta.Deletes)
		}

		query := `DELETE FROM schedule_slots WHERE account_id = $1 AND slot_key = ANY($2)`
		if _, err := tx.ExecContext(ctx, query, accountID, delta.Deletes[start:end]); err != nil {
			return err
		}
	}

	for key, assignment := range delta.Upserts {
		if err := insertSlot(ctx, tx, accountID, key, assignment); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertSlot(ctx context.Context, tx *sql.Tx, accountID string, key string, assignment domain.Assignment) error {
	ref, err := domain.DecodeSlotKey(key)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedule_slots (account_id, slot_key, date_key, staff_id, time_slot, role_id, role_code, role_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, slot_key) DO UPDATE
		SET role_id = EXCLUDED.role_id, role_code = EXCLUDED.role_code, role_color = EXCLUDED.role_color
	`

	params := []any{accountID, key, ref.DateKey, ref.StaffID, ref.TimeSlot, assignment.RoleID, assignment.RoleCode, assignment.RoleColor}
	if _, err := tx.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}
