package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Store is an in-memory implementation of domain.GroupStore, domain.ScheduleStore
// and domain.UserStore. It is NOT persistent and is only suitable for
// development / local mode and tests.
//
// The three collections share one lock so that DeleteGroup can check for
// references atomically.
type Store struct {
	mu sync.RWMutex

	groups  map[domain.GroupID]*groupRow
	entries map[domain.EntryID]*entryRow
	users   map[domain.UserID]*userRow

	seq uint64
	now func() time.Time
}

type groupRow struct {
	seq   uint64
	group domain.Group
}

type entryRow struct {
	seq   uint64
	entry domain.ScheduleEntry
}

type userRow struct {
	seq  uint64
	user domain.User
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		groups:  make(map[domain.GroupID]*groupRow),
		entries: make(map[domain.EntryID]*entryRow),
		users:   make(map[domain.UserID]*userRow),
		now:     time.Now,
	}
}

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func sortBySeq[T any](rows []T, seq func(T) uint64) {
	sort.Slice(rows, func(i, j int) bool {
		return seq(rows[i]) < seq(rows[j])
	})
}
