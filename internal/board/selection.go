package board

// Selection is the set of tasks picked for a bulk action. It only exists
// while selection mode is active and only ever holds visible tasks.
type Selection struct {
	active bool
	ids    map[int64]struct{}
}

func (s *Selection) Active() bool {
	return s.active
}

// Enter turns selection mode on with an empty selection.
func (s *Selection) Enter() {
	s.active = true
	s.ids = make(map[int64]struct{})
}

// Exit turns selection mode off and forgets the selection.
func (s *Selection) Exit() {
	s.active = false
	s.ids = nil
}

// Clear empties the selection without leaving the mode.
func (s *Selection) Clear() {
	if s.active {
		s.ids = make(map[int64]struct{})
	}
}

// Toggle flips id. Ids outside visible are ignored. It reports whether id
// is selected afterwards.
func (s *Selection) Toggle(id int64, visible []int64) bool {
	if !s.active || !contains(visible, id) {
		return false
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// ToggleAll clears the selection when every visible task is selected and
// selects all visible tasks otherwise.
func (s *Selection) ToggleAll(visible []int64) {
	if !s.active {
		return
	}
	if len(s.ids) == len(visible) {
		s.ids = make(map[int64]struct{})
		return
	}
	s.ids = make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Reconcile drops ids that are no longer visible.
func (s *Selection) Reconcile(visible []int64) {
	if !s.active {
		return
	}
	keep := make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		keep[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in the order they appear in visible.
func (s *Selection) IDs(visible []int64) []int64 {
	var out []int64
	for _, id := range visible {
		if _, ok := s.ids[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
