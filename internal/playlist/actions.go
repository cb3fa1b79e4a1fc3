package playlist

// ActionType labels a reversible playlist edit.
type ActionType string

const (
	ActionAdd     ActionType = "add"
	ActionDelete  ActionType = "delete"
	ActionMove    ActionType = "move"
	ActionReverse ActionType = "reverse"
	ActionShuffle ActionType = "shuffle"
)

// action pairs an edit type with the closure that undoes it.
type action struct {
	kind ActionType
	undo func()
}

// ActionLog keeps a bounded stack of reversible playlist edits.
type ActionLog struct {
	actions []action
	max     int
}

// NewActionLog creates a log keeping at most max entries; older entries are
// dropped first.
func NewActionLog(max int) *ActionLog {
	if max <= 0 {
		max = 50
	}
	return &ActionLog{max: max}
}

// Record pushes an undoable edit onto the log.
func (l *ActionLog) Record(kind ActionType, undo func()) {
	if len(l.actions) == l.max {
		copy(l.actions, l.actions[1:])
		l.actions = l.actions[:l.max-1]
	}
	l.actions = append(l.actions, action{kind: kind, undo: undo})
}

// UndoLastN unwinds up to n edits, newest first, and returns the types of
// the edits that were undone.
func (l *ActionLog) UndoLastN(n int) []ActionType {
	var undone []ActionType
	for i := 0; i < n && len(l.actions) > 0; i++ {
		last := l.actions[len(l.actions)-1]
		l.actions = l.actions[:len(l.actions)-1]
		last.undo()
		undone = append(undone, last.kind)
	}
	return undone
}

// History returns the recorded edit types in chronological order.
func (l *ActionLog) History() []ActionType {
	out := make([]ActionType, len(l.actions))
	for i, a := range l.actions {
		out[i] = a.kind
	}
	return out
}

// Clear drops all recorded edits.
func (l *ActionLog) Clear() {
	l.actions = nil
}
