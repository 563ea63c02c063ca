package service

import (
	"sync"
	"time"

	"github.com/noah-isme/edu-console-api/internal/dto"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	"github.com/noah-isme/edu-console-api/pkg/generator"
)

// draftRequest keeps the parameters a draft was opened with.
type draftRequest struct {
	StartDate          time.Time
	EndDate            time.Time
	ClassIDs           []string
	MaxSlotsPerSession int
	PreferMorning      bool
}

// draftWorkspace is one operator's in-memory editing session. All access goes
// through mu.
type draftWorkspace struct {
	mu sync.Mutex

	id              string
	source          dto.DraftSource
	editor          *scheduling.Editor
	offset          int
	request         draftRequest
	classBlackout   scheduling.BlackoutMatrix
	teacherBlackout scheduling.BlackoutMatrix
	directory       scheduling.Directory
	stats           *generator.Statistics
	createdBy       string
	createdAt       time.Time
	closed          bool
}

func (w *draftWorkspace) window() scheduling.WeekWindow {
	fallback := w.request.StartDate
	if fallback.IsZero() {
		fallback = w.createdAt
	}
	return scheduling.NewWeekWindow(w.editor.Sessions(), fallback)
}

type draftEntry struct {
	workspace *draftWorkspace
	expiresAt time.Time
}

// draftStore holds workspaces with a sliding TTL.
type draftStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]draftEntry
	now   func() time.Time
}

func newDraftStore(ttl time.Duration) *draftStore {
	return &draftStore{
		ttl:   ttl,
		items: make(map[string]draftEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *draftStore) Save(ws *draftWorkspace) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt := s.now().Add(s.ttl)
	s.items[ws.id] = draftEntry{workspace: ws, expiresAt: expiresAt}
	return expiresAt
}

// Get returns the workspace and extends its expiry.
func (s *draftStore) Get(id string) (*draftWorkspace, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[id]
	if !ok {
		return nil, time.Time{}, false
	}
	now := s.now()
	if now.After(entry.expiresAt) {
		delete(s.items, id)
		return nil, time.Time{}, false
	}
	entry.expiresAt = now.Add(s.ttl)
	s.items[id] = entry
	return entry.workspace, entry.expiresAt, true
}

func (s *draftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *draftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep drops expired workspaces and returns how many were removed.
func (s *draftStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
