package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// LoadBusinessRules 读取某账户的营业规则，还没有保存过时返回默认规则
func (r *Repository) LoadBusinessRules(accountID string) (*domain.BusinessRules, error) {
	query := `
		SELECT rules, version
		FROM business_rules
		WHERE account_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var payload []byte
	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, accountID).Scan(&payload, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultBusinessRules(), nil
		}
		return nil, err
	}

	rules := &domain.BusinessRules{}
	if err := json.Unmarshal(payload, rules); err != nil {
		return nil, err
	}
	rules.Version = version

	return rules, nil
}

func (r *Repository) SaveBusinessRules(accountID string, rules *domain.BusinessRules) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO business_rules (account_id, rules)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE
		SET rules = EXCLUDED.rules, version = business_rules.version + 1
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, accountID, payload).Scan(&rules.Version); err != nil {
		return err
	}

	return nil
}
