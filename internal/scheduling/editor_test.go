package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEditor(t *testing.T, opts EditorOptions) *Editor {
	t.Helper()
	topic := "Fractions"
	editor, err := NewEditor(hourlyCatalog(t), []Session{
		{ID: "s1", ClassID: "c1", ClassName: "7A", Date: mustDate(t, "2024-06-03"), TimeSlots: []int{2, 3}, TeacherID: "T1", TeacherName: "Ana", RoomID: "R1", RoomName: "Lab", LessonTopic: &topic},
		{ID: "s2", ClassID: "c2", ClassName: "7B", Date: mustDate(t, "2024-06-04"), TimeSlots: []int{1}, TeacherID: "T2", TeacherName: "Budi", RoomID: "R2", RoomName: "Hall"},
	}, opts)
	require.NoError(t, err)
	return editor
}

func TestEditorDropRelocatesKeepingSpan(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})

	require.NoError(t, editor.Lift("s1"))
	require.NoError(t, editor.Hover(mustDate(t, "2024-06-03"), 5))
	assert.Equal(t, DragHovering, editor.Drag().Phase)
	assert.Equal(t, "2024-06-03#5", editor.Drag().HoverKey)

	result, err := editor.Drop(mustDate(t, "2024-06-03"), 5)
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Nil(t, result.Pending)
	assert.Equal(t, []int{5, 6}, result.Session.TimeSlots)
	assert.Equal(t, "12:00", result.Session.StartTime)
	assert.Equal(t, "14:00", result.Session.EndTime)
	assert.Equal(t, DragIdle, editor.Drag().Phase)

	stored, ok := editor.Find("s1")
	require.True(t, ok)
	assert.Equal(t, []int{5, 6}, stored.TimeSlots)
	assert.Equal(t, "Ana", stored.TeacherName)
}

func TestEditorDropOutOfRangeLeavesCollectionUnchanged(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})
	before := editor.Sessions()

	require.NoError(t, editor.Lift("s1"))
	_, err := editor.Drop(mustDate(t, "2024-06-03"), 6)
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
	assert.Equal(t, before, editor.Sessions())
	assert.Equal(t, DragIdle, editor.Drag().Phase)
}

func TestEditorDragProtocolErrors(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})

	assert.ErrorIs(t, editor.Lift("missing"), ErrSessionNotFound)
	assert.ErrorIs(t, editor.Hover(mustDate(t, "2024-06-03"), 1), ErrNotLifted)
	_, err := editor.Drop(mustDate(t, "2024-06-03"), 1)
	assert.ErrorIs(t, err, ErrNotLifted)

	require.NoError(t, editor.Lift("s2"))
	editor.Cancel()
	assert.Equal(t, DragState{Phase: DragIdle}, editor.Drag())
}

func TestEditorRelocationConfirmation(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{ConfirmRelocations: true})

	require.NoError(t, editor.Lift("s2"))
	result, err := editor.Drop(mustDate(t, "2024-06-05"), 4)
	require.NoError(t, err)
	require.NotNil(t, result.Pending)
	assert.Equal(t, ConfirmRelocate, result.Pending.Kind)

	unchanged, _ := editor.Find("s2")
	assert.Equal(t, []int{1}, unchanged.TimeSlots)

	outcome, err := editor.Confirm(result.Pending.Token, true)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	moved, _ := editor.Find("s2")
	assert.Equal(t, []int{4}, moved.TimeSlots)
	assert.Equal(t, "2024-06-05", FormatDate(moved.Date))
	assert.Empty(t, editor.Pending())
}

func TestEditorDeleteRequiresConfirmation(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})

	pending, err := editor.RequestDelete("s1")
	require.NoError(t, err)
	assert.Equal(t, ConfirmDelete, pending.Kind)
	assert.Len(t, editor.Sessions(), 2)

	outcome, err := editor.Confirm(pending.Token, false)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Len(t, editor.Sessions(), 2)

	_, err = editor.Confirm(pending.Token, true)
	assert.ErrorIs(t, err, ErrConfirmationNotFound)

	pending, err = editor.RequestDelete("s1")
	require.NoError(t, err)
	outcome, err = editor.Confirm(pending.Token, true)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	_, ok := editor.Find("s1")
	assert.False(t, ok)
	assert.Len(t, editor.Sessions(), 1)
}

func TestEditorUpdateSessionDerivesNames(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})
	dir := Directory{Teachers: map[string]string{"T9": "Citra"}, Rooms: map[string]string{"R9": "Gym"}}

	teacher, room, topic := "T9", "R9", ""
	updated, err := editor.UpdateSession("s1", SessionPatch{TeacherID: &teacher, RoomID: &room, LessonTopic: &topic}, dir)
	require.NoError(t, err)
	assert.Equal(t, "Citra", updated.TeacherName)
	assert.Equal(t, "Gym", updated.RoomName)
	assert.Nil(t, updated.LessonTopic)
	assert.Equal(t, []int{2, 3}, updated.TimeSlots)

	unknown := "T404"
	_, err = editor.UpdateSession("s1", SessionPatch{TeacherID: &unknown}, dir)
	assert.ErrorIs(t, err, ErrUnknownTeacher)

	_, err = editor.UpdateSession("missing", SessionPatch{}, dir)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEditorSnapshotsAreIsolated(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})
	snapshot := editor.Sessions()
	snapshot[0].TimeSlots[0] = 99

	stored, _ := editor.Find("s1")
	assert.Equal(t, []int{2, 3}, stored.TimeSlots)
}

func TestNewEditorValidatesSeed(t *testing.T) {
	catalog := hourlyCatalog(t)

	_, err := NewEditor(catalog, []Session{{ClassID: "c1", Date: mustDate(t, "2024-06-03"), TimeSlots: []int{5, 6, 7}}}, EditorOptions{})
	assert.ErrorIs(t, err, ErrSlotOutOfRange)

	_, err = NewEditor(catalog, []Session{{Date: mustDate(t, "2024-06-03"), TimeSlots: []int{1}}}, EditorOptions{})
	assert.ErrorIs(t, err, ErrMissingClass)

	editor, err := NewEditor(catalog, []Session{
		{ID: "dup", ClassID: "c1", Date: mustDate(t, "2024-06-03"), TimeSlots: []int{1}},
		{ID: "dup", ClassID: "c2", Date: mustDate(t, "2024-06-03"), TimeSlots: []int{1}},
		{ClassID: "c3", Date: mustDate(t, "2024-06-03"), TimeSlots: []int{2}},
	}, EditorOptions{})
	require.NoError(t, err)
	ids := map[string]struct{}{}
	for _, s := range editor.Sessions() {
		require.NotEmpty(t, s.ID)
		ids[s.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
}

func TestEditorAdd(t *testing.T) {
	editor := newTestEditor(t, EditorOptions{})
	added, err := editor.Add(Session{ID: "s1", ClassID: "c9", Date: mustDate(t, "2024-06-06"), TimeSlots: []int{6}})
	require.NoError(t, err)
	assert.NotEqual(t, "s1", added.ID)
	assert.Equal(t, "13:00", added.StartTime)
	assert.Len(t, editor.Sessions(), 3)
}
