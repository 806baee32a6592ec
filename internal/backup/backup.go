package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// Store 把完整的排班快照按账户保存在 redis 中，作为崩溃恢复用的本地持久备份
type Store struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewStore(client *redis.Client, opTimeout time.Duration) *Store {
	return &Store{
		client:    client,
		opTimeout: opTimeout,
	}
}

func backupKey(accountID string) string {
	return fmt.Sprintf("schedule_backup_%s", accountID)
}

func (s *Store) Write(ctx context.Context, backup *domain.ScheduleBackup) error {
	payload, err := json.Marshal(backup)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.client.Set(ctx, backupKey(backup.AccountID), payload, 0).Err()
}

// Read 返回某账户的备份，不存在时返回 (nil, nil)
func (s *Store) Read(ctx context.Context, accountID string) (*domain.ScheduleBackup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, backupKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	backup := &domain.ScheduleBackup{}
	if err := json.Unmarshal([]byte(payload), backup); err != nil {
		return nil, err
	}

	return backup, nil
}

// Clear 在远端确认保存之后删除备份，让备份只在有未确认状态时存在
func (s *Store) Clear(ctx context.Context, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.client.Del(ctx, backupKey(accountID)).Err()
}
