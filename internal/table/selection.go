package table

type Mode int

const (
	Multi Mode = iota
	Single
)

// Selection tracks selected row ids in insertion order.
type Selection struct {
	mode Mode
	ids  []string
	set  map[string]struct{}
}

func NewSelection(mode Mode, ids ...string) *Selection {
	s := &Selection{mode: mode, set: map[string]struct{}{}}
	for _, id := range ids {
		s.Select(id)
	}
	return s
}

func (s *Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) Select(id string) {
	if id == "" || s.Has(id) {
		return
	}
	if s.mode == Single {
		s.Clear()
	}
	s.ids = append(s.ids, id)
	s.set[id] = struct{}{}
}

func (s *Selection) Deselect(id string) {
	if !s.Has(id) {
		return
	}
	delete(s.set, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.Deselect(id)
		return
	}
	s.Select(id)
}

// SelectAll adds every id; in single mode only the last one survives.
func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.Select(id)
	}
}

func (s *Selection) Clear() {
	s.ids = nil
	s.set = map[string]struct{}{}
}

func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int { return len(s.ids) }
