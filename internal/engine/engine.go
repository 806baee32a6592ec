package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
	"github.com/sunny-bistro/roster-manager/backend/internal/schedule"
	"github.com/sunny-bistro/roster-manager/backend/internal/syncer"
)

// Engine 是单个账户的排班编辑引擎：内存中的排班表、历史记录和持久化同步器。
// 所有编辑都经过 mu 串行化，对应原系统单用户单标签页的单写者假设
type Engine struct {
	accountID string

	mu      sync.Mutex
	store   *schedule.Store
	history *schedule.History
	editor  *schedule.Editor
	syncer  *syncer.Syncer

	// 本次会话中是否已经向用户提议过从本地备份恢复
	backupOffered bool
}

func newEngine(accountID string, remote syncer.Remote, backupStore syncer.BackupStore, cfg syncer.Config, onSaved func(accountID string, slotCount int)) *Engine {
	store := schedule.NewStore()
	history := schedule.NewHistory()
	sc := syncer.New(accountID, remote, backupStore, cfg, onSaved)
	editor := schedule.NewEditor(store, history, sc.Notify)

	return &Engine{
		accountID: accountID,
		store:     store,
		history:   history,
		editor:    editor,
		syncer:    sc,
	}
}

// load 从远端加载完整排班表并建立历史和同步基线
func (e *Engine) load(ctx context.Context, remote ScheduleLoader) error {
	slots, err := remote.LoadSchedule(ctx, e.accountID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.ReplaceAll(slots)
	// 记录初始快照，这样第一次编辑也可以被撤销
	e.history.Record(slots)
	e.syncer.SetBaseline(slots)

	return nil
}

func (e *Engine) AccountID() string {
	return e.accountID
}

// Snapshot 返回当前排班表。map 不会被原地修改，调用方只读持有是安全的
func (e *Engine) Snapshot() domain.Schedule {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.All()
}

func (e *Engine) Interval() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.Interval()
}

func (e *Engine) SetInterval(minutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.SetInterval(minutes)
}

func (e *Engine) PaintStroke(staffID string, cells []schedule.Cell, role *domain.Role) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.PaintStroke(staffID, cells, role)
}

func (e *Engine) QuickFill(dateKey string, staffID string, startTime string, endTime string, role *domain.Role) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.QuickFill(dateKey, staffID, startTime, endTime, role)
}

func (e *Engine) ApplyTemplate(template *domain.ShiftTemplate, dateKey string, staffID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.ApplyTemplate(template, dateKey, staffID)
}

func (e *Engine) DeleteShift(dateKey string, staffID string, timeSlot string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.DeleteShift(dateKey, staffID, timeSlot)
}

func (e *Engine) CopyDay(dateKey string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.editor.CopyDay(dateKey)
}

func (e *Engine) ClipboardDate() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.ClipboardDate()
}

func (e *Engine) PasteDay(targetDateKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.PasteDay(targetDateKey)
}

func (e *Engine) ClearDay(dateKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.ClearDay(dateKey)
}

func (e *Engine) ClearWeek(dateKeys []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.ClearWeek(dateKeys)
}

func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.Undo()
}

func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editor.Redo()
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.CanRedo()
}

func (e *Engine) SyncError() error {
	return e.syncer.LastError()
}

func (e *Engine) SaveInProgress() bool {
	return e.syncer.SaveInProgress()
}

// Resync 跳过防抖立即把当前状态推到远端，用于保存失败后手动重试
func (e *Engine) Resync() {
	e.syncer.FlushNow(e.Snapshot())
}

// BackupOffer 在远端为空、本地存在备份并且本次会话还没提议过时返回可恢复的备份。
// 一旦返回过就不会再提议，避免每次加载都打扰用户
func (e *Engine) BackupOffer(ctx context.Context, backupStore syncer.BackupStore) (*domain.ScheduleBackup, error) {
	e.mu.Lock()
	empty := e.store.Len() == 0
	offered := e.backupOffered
	e.mu.Unlock()

	if !empty || offered {
		return nil, nil
	}

	backup, err := backupStore.Read(ctx, e.accountID)
	if err != nil {
		return nil, err
	}
	if backup == nil || len(backup.Slots) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	e.backupOffered = true
	e.mu.Unlock()

	return backup, nil
}

// RestoreBackup 用本地备份替换当前排班表并强制一次完整保存
func (e *Engine) RestoreBackup(ctx context.Context, backupStore syncer.BackupStore) (int, error) {
	backup, err := backupStore.Read(ctx, e.accountID)
	if err != nil {
		return 0, err
	}
	if backup == nil {
		return 0, nil
	}

	e.mu.Lock()
	slots := backup.Slots.Clone()
	e.store.ReplaceAll(slots)
	e.history.Record(slots)
	e.mu.Unlock()

	e.syncer.FlushNow(slots)

	return len(slots), nil
}

func (e *Engine) Close() {
	e.syncer.Close()
}

// ScheduleLoader 是远端加载契约，约定返回匹配账户的全部槽位
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context, accountID string) (domain.Schedule, error)
}

// Remote 聚合引擎需要的全部远端能力
type Remote interface {
	ScheduleLoader
	syncer.Remote
}

// Registry 按账户缓存引擎，首次访问时从远端加载
type Registry struct {
	remote      Remote
	backupStore syncer.BackupStore
	syncCfg     syncer.Config
	onSaved     func(accountID string, slotCount int)

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewRegistry(remote Remote, backupStore syncer.BackupStore, syncCfg syncer.Config, onSaved func(accountID string, slotCount int)) *Registry {
	return &Registry{
		remote:      remote,
		backupStore: backupStore,
		syncCfg:     syncCfg,
		onSaved:     onSaved,
		engines:     map[string]*Engine{},
	}
}

func (r *Registry) Get(ctx context.Context, accountID string) (*Engine, error) {
	r.mu.Lock()
	if engine, ok := r.engines[accountID]; ok {
		r.mu.Unlock()
		return engine, nil
	}
	r.mu.Unlock()

	engine := newEngine(accountID, r.remote, r.backupStore, r.syncCfg, r.onSaved)
	if err := engine.load(ctx, r.remote); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 并发加载时可能有别人先放进去了，保留先到的那个
	if existing, ok := r.engines[accountID]; ok {
		engine.Close()
		return existing, nil
	}
	r.engines[accountID] = engine

	return engine, nil
}

func (r *Registry) BackupStore() syncer.BackupStore {
	return r.backupStore
}

// Close 关闭所有引擎并等待在途的保存结束
func (r *Registry) Close() {
	r.mu.Lock()
	engines := make([]*Engine, 0, len(r.engines))
	for _, engine := range r.engines {
		engines = append(engines, engine)
	}
	r.mu.Unlock()

	for _, engine := range engines {
		engine.Close()
	}
}

// SyncConfigFromDurations 便于把配置里的毫秒数换算成同步器配置
func SyncConfigFromDurations(debounceMS int, maxRetries int, retryBaseMS int) syncer.Config {
	return syncer.Config{
		Debounce:   time.Duration(debounceMS) * time.Millisecond,
		MaxRetries: maxRetries,
		RetryBase:  time.Duration(retryBaseMS) * time.Millisecond,
	}
}
