package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Editor errors.
var (
	ErrSessionNotFound      = errors.New("session not found in draft")
	ErrNotLifted            = errors.New("no session is currently lifted")
	ErrConfirmationNotFound = errors.New("confirmation not found or already resolved")
	ErrUnknownTeacher       = errors.New("teacher not found in directory")
	ErrUnknownRoom          = errors.New("room not found in directory")
)

// DragPhase is the state of the relocation protocol.
type DragPhase string

const (
	DragIdle     DragPhase = "idle"
	DragLifted   DragPhase = "lifted"
	DragHovering DragPhase = "hovering"
)

// DragState is transient; it never survives a drop or a cancel.
type DragState struct {
	Phase     DragPhase
	SessionID string
	HoverKey  string
}

// ConfirmationKind names the operation waiting for an operator decision.
type ConfirmationKind string

const (
	ConfirmDelete   ConfirmationKind = "DELETE"
	ConfirmRelocate ConfirmationKind = "RELOCATE"
)

// Placement is a relocation target.
type Placement struct {
	Date time.Time
	Slot int
}

// Confirmation is a mutation held back until the operator approves it.
type Confirmation struct {
	Token     string
	Kind      ConfirmationKind
	SessionID string
	Message   string
	Target    *Placement
}

// ConfirmationOutcome reports what happened when a confirmation was resolved.
type ConfirmationOutcome struct {
	Confirmation Confirmation
	Applied      bool
	Session      *Session
}

// DropResult is either an applied relocation or a pending confirmation.
type DropResult struct {
	Session *Session
	Pending *Confirmation
}

// Directory resolves display names for teacher and room ids.
type Directory struct {
	Teachers map[string]string
	Rooms    map[string]string
}

// SessionPatch carries field edits. Nil fields are left untouched; an empty topic clears it.
type SessionPatch struct {
	TeacherID   *string
	RoomID      *string
	LessonTopic *string
}

// EditorOptions tunes editor behaviour.
type EditorOptions struct {
	ConfirmRelocations bool
}

// Editor is the sole mutator of a draft session collection.
type Editor struct {
	catalog  *Catalog
	opts     EditorOptions
	sessions []Session
	drag     DragState
	pending  map[string]Confirmation
}

// NewEditor validates the seed sessions, assigns missing ids and derives wall-clock times.
func NewEditor(catalog *Catalog, seed []Session, opts EditorOptions) (*Editor, error) {
	if catalog == nil {
		return nil, ErrEmptyCatalog
	}
	e := &Editor{
		catalog: catalog,
		opts:    opts,
		drag:    DragState{Phase: DragIdle},
		pending: make(map[string]Confirmation),
	}
	sessions := make([]Session, 0, len(seed))
	ids := make(map[string]struct{}, len(seed))
	for _, s := range seed {
		prepared, err := e.prepare(s)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.Key(), err)
		}
		if _, dup := ids[prepared.ID]; dup {
			prepared.ID = NewSessionID()
		}
		ids[prepared.ID] = struct{}{}
		sessions = append(sessions, prepared)
	}
	e.sessions = sessions
	return e, nil
}

// Catalog returns the catalog the editor validates against.
func (e *Editor) Catalog() *Catalog {
	return e.catalog
}

// Sessions returns a copy of the collection.
func (e *Editor) Sessions() []Session {
	out := make([]Session, len(e.sessions))
	for i, s := range e.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Find looks a session up by id.
func (e *Editor) Find(id string) (Session, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return Session{}, false
	}
	return e.sessions[idx].Clone(), true
}

// Drag returns the current drag state.
func (e *Editor) Drag() DragState {
	return e.drag
}

// Pending lists unresolved confirmations ordered by token.
func (e *Editor) Pending() []Confirmation {
	out := make([]Confirmation, 0, len(e.pending))
	for _, c := range e.pending {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

// Add inserts a manually created session.
func (e *Editor) Add(s Session) (Session, error) {
	prepared, err := e.prepare(s)
	if err != nil {
		return Session{}, err
	}
	if e.indexOf(prepared.ID) >= 0 {
		prepared.ID = NewSessionID()
	}
	next := make([]Session, len(e.sessions), len(e.sessions)+1)
	copy(next, e.sessions)
	e.sessions = append(next, prepared)
	return prepared.Clone(), nil
}

// Lift starts a drag.
func (e *Editor) Lift(id string) error {
	if e.indexOf(id) < 0 {
		return ErrSessionNotFound
	}
	e.drag = DragState{Phase: DragLifted, SessionID: id}
	return nil
}

// Hover records the cell currently under the pointer.
func (e *Editor) Hover(date time.Time, slot int) error {
	if e.drag.Phase == DragIdle {
		return ErrNotLifted
	}
	e.drag.Phase = DragHovering
	e.drag.HoverKey = CellKey(date, slot)
	return nil
}

// Cancel ends the drag without changes.
func (e *Editor) Cancel() {
	e.drag = DragState{Phase: DragIdle}
}

// Drop relocates the lifted session so that it starts at slot on date, keeping its span.
// Out-of-range drops are rejected without mutation. Drag state is always cleared.
func (e *Editor) Drop(date time.Time, slot int) (DropResult, error) {
	state := e.drag
	e.Cancel()
	if state.Phase == DragIdle {
		return DropResult{}, ErrNotLifted
	}
	idx := e.indexOf(state.SessionID)
	if idx < 0 {
		return DropResult{}, ErrSessionNotFound
	}
	moved, err := e.sessions[idx].Placed(e.catalog, date, slot)
	if err != nil {
		return DropResult{}, err
	}
	if e.opts.ConfirmRelocations {
		pending := e.register(Confirmation{
			Kind:      ConfirmRelocate,
			SessionID: state.SessionID,
			Message:   fmt.Sprintf("move %s to %s slot %d?", e.sessions[idx].ClassName, FormatDate(date), slot),
			Target:    &Placement{Date: NormalizeDate(date), Slot: slot},
		})
		return DropResult{Pending: &pending}, nil
	}
	e.replace(idx, moved)
	result := moved.Clone()
	return DropResult{Session: &result}, nil
}

// UpdateSession applies field edits, re-deriving display names when ids change.
func (e *Editor) UpdateSession(id string, patch SessionPatch, dir Directory) (Session, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return Session{}, ErrSessionNotFound
	}
	updated := e.sessions[idx].Clone()
	if patch.TeacherID != nil && *patch.TeacherID != updated.TeacherID {
		name, err := lookupName(dir.Teachers, *patch.TeacherID, ErrUnknownTeacher)
		if err != nil {
			return Session{}, err
		}
		updated.TeacherID = *patch.TeacherID
		updated.TeacherName = name
	}
	if patch.RoomID != nil && *patch.RoomID != updated.RoomID {
		name, err := lookupName(dir.Rooms, *patch.RoomID, ErrUnknownRoom)
		if err != nil {
			return Session{}, err
		}
		updated.RoomID = *patch.RoomID
		updated.RoomName = name
	}
	if patch.LessonTopic != nil {
		if *patch.LessonTopic == "" {
			updated.LessonTopic = nil
		} else {
			topic := *patch.LessonTopic
			updated.LessonTopic = &topic
		}
	}
	e.replace(idx, updated)
	return updated.Clone(), nil
}

// RequestDelete registers a deletion that only happens once confirmed.
func (e *Editor) RequestDelete(id string) (Confirmation, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return Confirmation{}, ErrSessionNotFound
	}
	s := e.sessions[idx]
	return e.register(Confirmation{
		Kind:      ConfirmDelete,
		SessionID: id,
		Message:   fmt.Sprintf("delete %s on %s (%s-%s)?", s.ClassName, FormatDate(s.Date), s.StartTime, s.EndTime),
	}), nil
}

// Confirm resolves a pending confirmation. A rejection discards it without mutation.
func (e *Editor) Confirm(token string, approve bool) (ConfirmationOutcome, error) {
	pending, ok := e.pending[token]
	if !ok {
		return ConfirmationOutcome{}, ErrConfirmationNotFound
	}
	delete(e.pending, token)
	outcome := ConfirmationOutcome{Confirmation: pending}
	if !approve {
		return outcome, nil
	}
	idx := e.indexOf(pending.SessionID)
	if idx < 0 {
		return outcome, ErrSessionNotFound
	}
	switch pending.Kind {
	case ConfirmDelete:
		removed := e.sessions[idx].Clone()
		next := make([]Session, 0, len(e.sessions)-1)
		next = append(next, e.sessions[:idx]...)
		e.sessions = append(next, e.sessions[idx+1:]...)
		for t, c := range e.pending {
			if c.SessionID == removed.ID {
				delete(e.pending, t)
			}
		}
		outcome.Applied = true
		outcome.Session = &removed
	case ConfirmRelocate:
		moved, err := e.sessions[idx].Placed(e.catalog, pending.Target.Date, pending.Target.Slot)
		if err != nil {
			return outcome, err
		}
		e.replace(idx, moved)
		outcome.Applied = true
		result := moved.Clone()
		outcome.Session = &result
	}
	return outcome, nil
}

// CellKey identifies a (date, slot) cell.
func CellKey(date time.Time, slot int) string {
	return FormatDate(date) + "#" + strconv.Itoa(slot)
}

func (e *Editor) prepare(s Session) (Session, error) {
	prepared := s.Clone()
	if prepared.ClassID == "" {
		return Session{}, ErrMissingClass
	}
	if prepared.Date.IsZero() {
		return Session{}, ErrMissingDate
	}
	prepared.Date = NormalizeDate(prepared.Date)
	if prepared.ID == "" {
		prepared.ID = NewSessionID()
	}
	if err := prepared.DeriveTimes(e.catalog); err != nil {
		return Session{}, err
	}
	return prepared, nil
}

func (e *Editor) register(c Confirmation) Confirmation {
	c.Token = uuid.NewString()
	e.pending[c.Token] = c
	return c
}

// replace swaps in a fresh slice so earlier snapshots stay untouched.
func (e *Editor) replace(idx int, s Session) {
	next := make([]Session, len(e.sessions))
	copy(next, e.sessions)
	next[idx] = s
	e.sessions = next
}

func (e *Editor) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, s := range e.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func lookupName(names map[string]string, id string, notFound error) (string, error) {
	if id == "" {
		return "", nil
	}
	name, ok := names[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", notFound, id)
	}
	return name, nil
}
