package schedule

import (
	"sync"

	"github.com/feedingfoundation/locator/internal/models"
)

// Memo caches Parse results by exact input text. It is safe for concurrent
// use. Cached schedules are shared between callers and must not be modified.
type Memo struct {
	entries sync.Map // string -> memoEntry
}

type memoEntry struct {
	schedule models.ParsedSchedule
}

// NewMemo creates an empty cache.
func NewMemo() *Memo {
	return &Memo{}
}

// Parse returns the cached result for text, parsing it on first use.
func (m *Memo) Parse(text string) models.ParsedSchedule {
	if v, ok := m.entries.Load(text); ok {
		return v.(memoEntry).schedule
	}
	entry := memoEntry{schedule: Parse(text)}
	v, _ := m.entries.LoadOrStore(text, entry)
	return v.(memoEntry).schedule
}

// Len returns the number of cached inputs.
func (m *Memo) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
