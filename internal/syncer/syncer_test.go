package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

type fakeRemote struct {
	mu         sync.Mutex
	fullCalls  int
	deltaCalls int
	lastState  domain.Schedule
	failures   int // 前几次调用返回错误
}

func (f *fakeRemote) SaveScheduleFull(_ context.Context, _ string, slots domain.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fullCalls++
	if f.failures > 0 {
		f.failures--
		return errors.New("远端不可用")
	}
	f.lastState = slots.Clone()
	return nil
}

func (f *fakeRemote) SaveScheduleDelta(_ context.Context, _ string, desired domain.Schedule, _ domain.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deltaCalls++
	if f.failures > 0 {
		f.failures--
		return errors.New("远端不可用")
	}
	f.lastState = desired.Clone()
	return nil
}

func (f *fakeRemote) stats() (int, int, domain.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fullCalls, f.deltaCalls, f.lastState
}

type fakeBackupStore struct {
	mu     sync.Mutex
	writes int
	clears int
	stored *domain.ScheduleBackup // Clear 之后为 nil
	last   *domain.ScheduleBackup // 最近一次写入的内容，不受 Clear 影响
}

func (f *fakeBackupStore) Write(_ context.Context, backup *domain.ScheduleBackup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	f.stored = backup
	f.last = backup
	return nil
}

func (f *fakeBackupStore) Read(_ context.Context, _ string) (*domain.ScheduleBackup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.stored, nil
}

func (f *fakeBackupStore) Clear(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clears++
	f.stored = nil
	return nil
}

func testConfig() Config {
	return Config{
		Debounce:   20 * time.Millisecond,
		MaxRetries: 2,
		RetryBase:  5 * time.Millisecond,
	}
}

func stateWith(roleID string) domain.Schedule {
	return domain.Schedule{
		"2026-01-05_abcd1234_09:00": {RoleID: roleID},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("等待条件超时")
}

func TestSyncerDebouncesRapidEdits(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})

	// 快速连续的编辑只触发一次保存，且保存的是最后一个状态
	for i := 0; i < 5; i++ {
		s.Notify(stateWith("r1"))
	}
	final := stateWith("r9")
	s.Notify(final)

	waitFor(t, func() bool {
		_, deltaCalls, _ := remote.stats()
		return deltaCalls > 0
	})

	fullCalls, deltaCalls, lastState := remote.stats()
	require.Equal(t, 0, fullCalls)
	require.Equal(t, 1, deltaCalls)
	require.Equal(t, final, lastState)
	require.NoError(t, s.LastError())
}

func TestSyncerUsesFullSaveWithoutBaseline(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	s.FlushNow(stateWith("r1"))

	waitFor(t, func() bool {
		fullCalls, _, _ := remote.stats()
		return fullCalls > 0
	})

	fullCalls, deltaCalls, _ := remote.stats()
	require.Equal(t, 1, fullCalls)
	require.Equal(t, 0, deltaCalls)
}

func TestSyncerWritesBackupBeforeEachSave(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})
	s.FlushNow(stateWith("r1"))

	waitFor(t, func() bool {
		backup.mu.Lock()
		defer backup.mu.Unlock()
		return backup.writes > 0
	})

	backup.mu.Lock()
	defer backup.mu.Unlock()
	require.Equal(t, "acct0001", backup.last.AccountID)
	require.Equal(t, stateWith("r1"), backup.last.Slots)
}

func TestSyncerClearsBackupAfterConfirmedSave(t *testing.T) {
	t.Run("cleared on success", func(t *testing.T) {
		remote := &fakeRemote{}
		backup := &fakeBackupStore{}
		s := New("acct0001", remote, backup, testConfig(), nil)
		defer s.Close()

		s.SetBaseline(domain.Schedule{})
		s.FlushNow(stateWith("r1"))

		// 远端确认之后备份被清除，之后只有保存失败或崩溃才会留下备份
		waitFor(t, func() bool {
			backup.mu.Lock()
			defer backup.mu.Unlock()
			return backup.clears > 0
		})

		backup.mu.Lock()
		defer backup.mu.Unlock()
		require.Equal(t, 1, backup.writes)
		require.Nil(t, backup.stored)
	})

	t.Run("kept on failure", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxRetries = 0

		remote := &fakeRemote{failures: 1}
		backup := &fakeBackupStore{}
		s := New("acct0001", remote, backup, cfg, nil)
		defer s.Close()

		s.SetBaseline(domain.Schedule{})
		s.FlushNow(stateWith("r1"))

		waitFor(t, func() bool {
			return s.LastError() != nil
		})

		// 保存失败时备份必须留存，它是重启后唯一能恢复该状态的来源
		backup.mu.Lock()
		defer backup.mu.Unlock()
		require.Equal(t, 0, backup.clears)
		require.NotNil(t, backup.stored)
		require.Equal(t, stateWith("r1"), backup.stored.Slots)
	})
}

func TestSyncerRetriesAndRecovers(t *testing.T) {
	remote := &fakeRemote{failures: 2}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})
	s.FlushNow(stateWith("r1"))

	// 前两次失败后第三次成功，错误被清除
	waitFor(t, func() bool {
		_, _, lastState := remote.stats()
		return lastState != nil
	})

	_, deltaCalls, _ := remote.stats()
	require.Equal(t, 3, deltaCalls)
	require.NoError(t, s.LastError())
}

func TestSyncerKeepsBaselineOnFailure(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 0

	remote := &fakeRemote{failures: 1}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, cfg, nil)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})
	s.FlushNow(stateWith("r1"))

	waitFor(t, func() bool {
		return s.LastError() != nil
	})

	// 基线没有被推进，下一轮保存会针对同一基线重发同样的差异
	s.FlushNow(stateWith("r1"))
	waitFor(t, func() bool {
		_, _, lastState := remote.stats()
		return lastState != nil
	})

	require.NoError(t, s.LastError())
	_, deltaCalls, lastState := remote.stats()
	require.Equal(t, 2, deltaCalls)
	require.Equal(t, stateWith("r1"), lastState)
}

func TestSyncerCoalescesEditsDuringSave(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})

	s.FlushNow(stateWith("r1"))
	// 保存在执行期间继续产生新状态，只应保留最新的那个做尾随写入
	s.FlushNow(stateWith("r2"))
	s.FlushNow(stateWith("r3"))

	waitFor(t, func() bool {
		_, _, lastState := remote.stats()
		return lastState != nil && lastState["2026-01-05_abcd1234_09:00"].RoleID == "r3"
	})

	require.NoError(t, s.LastError())
}

func TestSyncerSkipsEmptyDelta(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}
	s := New("acct0001", remote, backup, testConfig(), nil)
	defer s.Close()

	baseline := stateWith("r1")
	s.SetBaseline(baseline)
	s.FlushNow(baseline.Clone())

	waitFor(t, func() bool {
		return !s.SaveInProgress()
	})

	fullCalls, deltaCalls, _ := remote.stats()
	require.Equal(t, 0, fullCalls)
	require.Equal(t, 0, deltaCalls)
}

func TestSyncerOnSavedCallback(t *testing.T) {
	remote := &fakeRemote{}
	backup := &fakeBackupStore{}

	var mu sync.Mutex
	var savedCount int
	onSaved := func(accountID string, slotCount int) {
		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, "acct0001", accountID)
		require.Equal(t, 1, slotCount)
		savedCount++
	}

	s := New("acct0001", remote, backup, testConfig(), onSaved)
	defer s.Close()

	s.SetBaseline(domain.Schedule{})
	s.FlushNow(stateWith("r1"))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return savedCount == 1
	})
}
