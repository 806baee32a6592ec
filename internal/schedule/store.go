package schedule

import (
	"github.com/sunny-bistro/roster-manager/backend/internal/domain"
)

// Store 维护槽位键到排班记录的稀疏映射。
// 所有修改都会构建一个新的 map 而不是原地修改，这样历史快照和外部读取方
// 观察到的始终是值语义：修改前拿到的快照不会被后续修改影响
type Store struct {
	slots domain.Schedule
}

func NewStore() *Store {
	return &Store{
		slots: domain.Schedule{},
	}
}

func (s *Store) Get(key string) (domain.Assignment, bool) {
	assignment, ok := s.slots[key]
	return assignment, ok
}

func (s *Store) Set(key string, assignment domain.Assignment) {
	next := s.slots.Clone()
	next[key] = assignment
	s.slots = next
}

func (s *Store) Delete(key string) {
	if _, ok := s.slots[key]; !ok {
		return
	}

	next := s.slots.Clone()
	delete(next, key)
	s.slots = next
}

// All 返回当前 map 的引用。map 永远不会被原地修改，因此调用方只读地持有它是安全的
func (s *Store) All() domain.Schedule {
	return s.slots
}

func (s *Store) ReplaceAll(next domain.Schedule) {
	if next == nil {
		next = domain.Schedule{}
	}
	s.slots = next
}

func (s *Store) Len() int {
	return len(s.slots)
}
