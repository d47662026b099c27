// Package shortlist holds the recruiter's saved candidates, talented users and
// comparison selection. A Store is a plain state container; persistence goes
// through Snapshot and Restore.
package shortlist

import (
	"time"

	"github.com/yoockh/talentscope/internal/models"
)

type Store struct {
	candidates    []models.ShortlistEntry
	talentedUsers []models.TalentedUser
	selected      []string

	now func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// Restore rebuilds a store from a snapshot. Comparison ids that are not in
// the shortlist, duplicates and anything past the cap are dropped.
func Restore(st models.ShortlistState) *Store {
	s := New()
	for _, c := range st.Candidates {
		if s.indexOf(c.ID) < 0 && c.ID != "" {
			s.candidates = append(s.candidates, c)
		}
	}
	for _, u := range st.TalentedUsers {
		if s.talentedIndex(u.ID) < 0 && u.ID != "" {
			s.talentedUsers = append(s.talentedUsers, u)
		}
	}
	for _, id := range st.SelectedForComparison {
		if len(s.selected) == models.MaxComparison {
			break
		}
		if s.indexOf(id) >= 0 && !contains(s.selected, id) {
			s.selected = append(s.selected, id)
		}
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.ShortlistState {
	st := models.ShortlistState{
		Candidates:            make([]models.ShortlistEntry, len(s.candidates)),
		TalentedUsers:         make([]models.TalentedUser, len(s.talentedUsers)),
		SelectedForComparison: append([]string{}, s.selected...),
	}
	copy(st.Candidates, s.candidates)
	copy(st.TalentedUsers, s.talentedUsers)
	return st
}

// AddCandidate saves c unless its id is already shortlisted. It reports
// whether the store changed.
func (s *Store) AddCandidate(c models.Candidate) bool {
	if c.ID == "" || s.indexOf(c.ID) >= 0 {
		return false
	}
	s.candidates = append(s.candidates, models.ShortlistEntry{Candidate: c, AddedAt: s.now().UTC()})
	return true
}

// RemoveCandidate drops the entry and its comparison selection.
func (s *Store) RemoveCandidate(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.candidates = append(s.candidates[:i:i], s.candidates[i+1:]...)
	s.selected = without(s.selected, id)
	return true
}

// UpdateNote is a no-op when id is not shortlisted.
func (s *Store) UpdateNote(id, note string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.candidates[i].Note = note
	return true
}

func (s *Store) AddTalentedUser(u models.SearchResultItem) bool {
	if u.ID == "" || s.talentedIndex(u.ID) >= 0 {
		return false
	}
	s.talentedUsers = append(s.talentedUsers, models.TalentedUser{SearchResultItem: u, AddedAt: s.now().UTC()})
	return true
}

func (s *Store) RemoveTalentedUser(id string) bool {
	i := s.talentedIndex(id)
	if i < 0 {
		return false
	}
	s.talentedUsers = append(s.talentedUsers[:i:i], s.talentedUsers[i+1:]...)
	return true
}

// ToggleComparison flips id in the comparison selection. Adding past the cap
// or an id that is not shortlisted leaves the selection unchanged.
func (s *Store) ToggleComparison(id string) bool {
	if contains(s.selected, id) {
		s.selected = without(s.selected, id)
		return true
	}
	if len(s.selected) >= models.MaxComparison || s.indexOf(id) < 0 {
		return false
	}
	s.selected = append(s.selected, id)
	return true
}

func (s *Store) ClearComparison() bool {
	if len(s.selected) == 0 {
		return false
	}
	s.selected = nil
	return true
}

func (s *Store) IsShortlisted(id string) bool { return s.indexOf(id) >= 0 }

func (s *Store) IsTalentedUserShortlisted(id string) bool { return s.talentedIndex(id) >= 0 }

// Compare returns the selected entries in selection order.
func (s *Store) Compare() []models.ShortlistEntry {
	out := make([]models.ShortlistEntry, 0, len(s.selected))
	for _, id := range s.selected {
		if i := s.indexOf(id); i >= 0 {
			out = append(out, s.candidates[i])
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) talentedIndex(id string) int {
	for i, u := range s.talentedUsers {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
