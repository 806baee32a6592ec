package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/schedule"
	"github.com/sunny-bistro/roster-manager/backend/internal/syncer"
)

type fakeRemote struct {
	mu        sync.Mutex
	initial   domain.Schedule
	loadCalls int
	lastSaved domain.Schedule
}

func (f *fakeRemote) LoadSchedule(_ context.Context, _ string) (domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadCalls++
	return f.initial.Clone(), nil
}

func (f *fakeRemote) SaveScheduleFull(_ context.Context, _ string, slots domain.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSaved = slots.Clone()
	return nil
}

func (f *fakeRemote) SaveScheduleDelta(_ context.Context, _ string, desired domain.Schedule, _ domain.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSaved = desired.Clone()
	return nil
}

func (f *fakeRemote) saved() domain.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastSaved
}

type fakeBackupStore struct {
	mu      sync.Mutex
	backups map[string]*domain.ScheduleBackup
}

func newFakeBackupStore() *fakeBackupStore {
	return &fakeBackupStore{backups: map[string]*domain.ScheduleBackup{}}
}

func (f *fakeBackupStore) Write(_ context.Context, backup *domain.ScheduleBackup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.backups[backup.AccountID] = backup
	return nil
}

func (f *fakeBackupStore) Read(_ context.Context, accountID string) (*domain.ScheduleBackup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.backups[accountID], nil
}

func (f *fakeBackupStore) Clear(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.backups, accountID)
	return nil
}

func testSyncConfig() syncer.Config {
	return syncer.Config{
		Debounce:   10 * time.Millisecond,
		MaxRetries: 0,
		RetryBase:  time.Millisecond,
	}
}

var testRole = &domain.Role{ID: "r1", Name: "厨师", Code: "厨", Color: "#ef4444"}

func TestRegistryLoadsEngineOnFirstTouch(t *testing.T) {
	remote := &fakeRemote{
		initial: domain.Schedule{
			"2026-01-05_abcd1234_09:00": {RoleID: "r1"},
		},
	}
	registry := NewRegistry(remote, newFakeBackupStore(), testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)
	require.Equal(t, "acct0001", eng.AccountID())
	require.Len(t, eng.Snapshot(), 1)

	// 第二次获取复用同一个引擎，不再访问远端
	again, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)
	require.Same(t, eng, again)
	require.Equal(t, 1, remote.loadCalls)
}

func TestEngineEditUndoRedo(t *testing.T) {
	remote := &fakeRemote{initial: domain.Schedule{}}
	registry := NewRegistry(remote, newFakeBackupStore(), testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)

	require.False(t, eng.CanUndo())

	cells := []schedule.Cell{{DateKey: "2026-01-05", TimeSlot: "09:00"}}
	require.NoError(t, eng.PaintStroke("abcd1234", cells, testRole))
	require.True(t, eng.CanUndo())

	// 第一次编辑也能撤销回加载时的初始状态
	require.True(t, eng.Undo())
	require.Len(t, eng.Snapshot(), 0)
	require.True(t, eng.Redo())
	require.NotEmpty(t, eng.Snapshot())
}

func TestEngineSyncsEditsToRemote(t *testing.T) {
	remote := &fakeRemote{initial: domain.Schedule{}}
	registry := NewRegistry(remote, newFakeBackupStore(), testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)

	require.NoError(t, eng.QuickFill("2026-01-05", "abcd1234", "09:00", "10:00", testRole))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(remote.saved()) == 4 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("编辑没有在防抖窗口后被同步到远端")
}

func TestEngineBackupOffer(t *testing.T) {
	backupStore := newFakeBackupStore()
	backup := &domain.ScheduleBackup{
		AccountID: "acct0001",
		Slots:     domain.Schedule{"2026-01-05_abcd1234_09:00": {RoleID: "r1"}},
		SavedAt:   time.Now(),
	}
	require.NoError(t, backupStore.Write(context.Background(), backup))

	remote := &fakeRemote{initial: domain.Schedule{}}
	registry := NewRegistry(remote, backupStore, testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)

	// 远端为空且本地有备份时提议恢复
	offered, err := eng.BackupOffer(context.Background(), backupStore)
	require.NoError(t, err)
	require.NotNil(t, offered)
	require.Len(t, offered.Slots, 1)

	// 同一个会话内只提议一次
	offered, err = eng.BackupOffer(context.Background(), backupStore)
	require.NoError(t, err)
	require.Nil(t, offered)
}

func TestEngineBackupOfferSkippedWhenRemoteHasData(t *testing.T) {
	backupStore := newFakeBackupStore()
	require.NoError(t, backupStore.Write(context.Background(), &domain.ScheduleBackup{
		AccountID: "acct0001",
		Slots:     domain.Schedule{"2026-01-05_abcd1234_09:00": {RoleID: "r1"}},
	}))

	remote := &fakeRemote{
		initial: domain.Schedule{
			"2026-01-06_abcd1234_10:00": {RoleID: "r2"},
		},
	}
	registry := NewRegistry(remote, backupStore, testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)

	offered, err := eng.BackupOffer(context.Background(), backupStore)
	require.NoError(t, err)
	require.Nil(t, offered)
}

func TestEngineRestoreBackup(t *testing.T) {
	backupStore := newFakeBackupStore()
	require.NoError(t, backupStore.Write(context.Background(), &domain.ScheduleBackup{
		AccountID: "acct0001",
		Slots: domain.Schedule{
			"2026-01-05_abcd1234_09:00": {RoleID: "r1"},
			"2026-01-05_abcd1234_09:15": {RoleID: "r1"},
		},
	}))

	remote := &fakeRemote{initial: domain.Schedule{}}
	registry := NewRegistry(remote, backupStore, testSyncConfig(), nil)
	defer registry.Close()

	eng, err := registry.Get(context.Background(), "acct0001")
	require.NoError(t, err)

	restored, err := eng.RestoreBackup(context.Background(), backupStore)
	require.NoError(t, err)
	require.Equal(t, 2, restored)
	require.Len(t, eng.Snapshot(), 2)

	// 恢复也是一次可撤销的编辑
	require.True(t, eng.Undo())
	require.Len(t, eng.Snapshot(), 0)
}
