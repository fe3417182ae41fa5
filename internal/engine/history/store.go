package history

// entryStore is the append-only bounded entry sequence plus a cursor.
// The cursor indexes the last applied entry; -1 means nothing applied.
// Entries after the cursor form the redo tail.
type entryStore struct {
	entries []*Entry
	cursor  int
}

func newEntryStore() entryStore {
	return entryStore{cursor: -1}
}

// record truncates the redo tail, appends the entry, advances the
// cursor to it, and enforces max by trimming from the oldest end.
// It returns every entry removed (invalidated redo tail plus trimmed
// prefix) so the caller can invalidate save points.
func (s *entryStore) record(e *Entry, max int) (removed []*Entry) {
	if s.cursor+1 < len(s.entries) {
		removed = append(removed, s.entries[s.cursor+1:]...)
		s.entries = s.entries[:s.cursor+1]
	}

	s.entries = append(s.entries, e)
	s.cursor = len(s.entries) - 1

	removed = append(removed, s.trim(max)...)
	return removed
}

// trim removes oldest entries until the sequence fits max, adjusting
// the cursor by the number removed (never below -1).
func (s *entryStore) trim(max int) (removed []*Entry) {
	if max <= 0 || len(s.entries) <= max {
		return nil
	}

	excess := len(s.entries) - max
	removed = s.entries[:excess:excess]
	s.entries = s.entries[excess:]

	s.cursor -= excess
	if s.cursor < -1 {
		s.cursor = -1
	}
	return removed
}

// undo returns the entry at the cursor and moves the cursor back.
func (s *entryStore) undo() (*Entry, bool) {
	if s.cursor < 0 {
		return nil, false
	}
	e := s.entries[s.cursor]
	s.cursor--
	return e, true
}

// redo advances the cursor and returns the entry now at it.
func (s *entryStore) redo() (*Entry, bool) {
	if s.cursor+1 >= len(s.entries) {
		return nil, false
	}
	s.cursor++
	return s.entries[s.cursor], true
}

func (s *entryStore) canUndo() bool {
	return s.cursor >= 0
}

func (s *entryStore) canRedo() bool {
	return s.cursor+1 < len(s.entries)
}

// current returns the entry at the cursor, if any.
func (s *entryStore) current() (*Entry, bool) {
	if s.cursor < 0 {
		return nil, false
	}
	return s.entries[s.cursor], true
}

// next returns the first entry of the redo tail, if any.
func (s *entryStore) next() (*Entry, bool) {
	if s.cursor+1 >= len(s.entries) {
		return nil, false
	}
	return s.entries[s.cursor+1], true
}

func (s *entryStore) size() int {
	return len(s.entries)
}

func (s *entryStore) clear() {
	s.entries = nil
	s.cursor = -1
}
