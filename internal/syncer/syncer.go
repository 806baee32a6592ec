package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// Remote 是远端持久化服务的契约，由 repository 实现
type Remote interface {
	SaveScheduleFull(ctx context.Context, accountID string, slots domain.Schedule) error
	SaveScheduleDelta(ctx context.Context, accountID string, desired domain.Schedule, baseline domain.Schedule) error
}

// BackupStore 是本地持久备份的契约，只用于崩溃恢复
type BackupStore interface {
	Write(ctx context.Context, backup *domain.ScheduleBackup) error
	Read(ctx context.Context, accountID string) (*domain.ScheduleBackup, error)
	Clear(ctx context.Context, accountID string) error
}

type Config struct {
	Debounce   time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// Syncer 把排班表的变化防抖后同步到远端。
// 同一时间最多只有一次保存在执行；保存期间到达的新状态放进容量为 1 的
// 单槽队列（只保留最新），保存结束后立即为它开启新一轮保存，
// 从而保证远端最终收敛到用户产生的最后一个状态。
// 失败时不推进基线，按指数退避重试同一差异，期间本地编辑不受阻塞
type Syncer struct {
	accountID string
	remote    Remote
	backup    BackupStore
	cfg       Config
	onSaved   func(accountID string, slotCount int)

	mu             sync.Mutex
	timer          *time.Timer
	saveInProgress bool
	pending        domain.Schedule
	lastConfirmed  domain.Schedule
	hasBaseline    bool
	lastErr        error
	wg             sync.WaitGroup
}

func New(accountID string, remote Remote, backup BackupStore, cfg Config, onSaved func(accountID string, slotCount int)) *Syncer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}

	return &Syncer{
		accountID: accountID,
		remote:    remote,
		backup:    backup,
		cfg:       cfg,
		onSaved:   onSaved,
	}
}

// SetBaseline 在启动加载完成后设置最近一次确认的远端状态
func (s *Syncer) SetBaseline(state domain.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastConfirmed = state
	s.hasBaseline = true
}

// Notify 在排班表变化后调用，重置防抖计时器；
// 连续编辑只会在最后一次编辑的 1 秒静默后触发一次保存
func (s *Syncer) Notify(state domain.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.flush(state)
	})
}

// FlushNow 跳过防抖立即开始一轮保存，用于主动触发重新同步
func (s *Syncer) FlushNow(state domain.Schedule) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.flush(state)
}

func (s *Syncer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

func (s *Syncer) SaveInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveInProgress
}

// Close 停止防抖计时器并等待在途的保存结束
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Syncer) flush(state domain.Schedule) {
	s.mu.Lock()
	if s.saveInProgress {
		// 已经有一次保存在执行，只把最新状态暂存起来，
		// 把快速连续的编辑合并成一次尾随写入
		s.pending = state
		s.mu.Unlock()
		return
	}
	s.saveInProgress = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.save(state)
}

func (s *Syncer) save(state domain.Schedule) {
	defer s.wg.Done()

	ctx := context.Background()

	// 先写本地备份用于崩溃恢复；备份失败不阻塞远端保存
	backup := &domain.ScheduleBackup{
		AccountID: s.accountID,
		Slots:     state,
		SavedAt:   time.Now(),
	}
	if err := s.backup.Write(ctx, backup); err != nil {
		slog.Warn("写入本地备份失败", "accountID", s.accountID, "error", err)
	}

	var err error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.cfg.RetryBase << (attempt - 1))
		}

		err = s.push(ctx, state)
		if err == nil {
			break
		}
		slog.Warn("远端保存失败", "accountID", s.accountID, "attempt", attempt+1, "error", err)
	}

	s.mu.Lock()
	if err != nil {
		// 不推进基线，下一轮保存会针对同一基线重试同样的差异
		s.lastErr = err
	} else {
		s.lastConfirmed = state
		s.hasBaseline = true
		s.lastErr = nil
	}
	s.saveInProgress = false
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if err == nil {
		// 远端已确认持有该状态，崩溃恢复备份随之失效；
		// 只在保存失败或崩溃后备份才会留存
		if clearErr := s.backup.Clear(ctx, s.accountID); clearErr != nil {
			slog.Warn("清除本地备份失败", "accountID", s.accountID, "error", clearErr)
		}
		if s.onSaved != nil {
			s.onSaved(s.accountID, len(state))
		}
	}

	if pending != nil {
		// 保存期间又产生了新状态，立即为最新状态开启新一轮保存
		s.flush(pending)
	}
}

func (s *Syncer) push(ctx context.Context, state domain.Schedule) error {
	s.mu.Lock()
	baseline := s.lastConfirmed
	hasBaseline := s.hasBaseline
	s.mu.Unlock()

	if !hasBaseline {
		// 还没有已确认的基线，只能整表覆盖
		return s.remote.SaveScheduleFull(ctx, s.accountID, state)
	}

	if Diff(state, baseline).Empty() {
		return nil
	}

	return s.remote.SaveScheduleDelta(ctx, s.accountID, state, baseline)
}
