package shortlist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/talentscope/internal/models"
)

func cand(id string) models.Candidate {
	return models.Candidate{ID: id, Name: "Candidate " + id}
}

func newFixedStore() *Store {
	s := New()
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestAddCandidateIsUnique(t *testing.T) {
	s := newFixedStore()
	assert.True(t, s.AddCandidate(cand("1")))
	assert.False(t, s.AddCandidate(cand("1")))
	assert.False(t, s.AddCandidate(models.Candidate{}))

	snap := s.Snapshot()
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), snap.Candidates[0].AddedAt)
	assert.True(t, s.IsShortlisted("1"))
	assert.False(t, s.IsShortlisted("2"))
}

func TestRemoveCandidateClearsComparison(t *testing.T) {
	s := newFixedStore()
	s.AddCandidate(cand("1"))
	s.AddCandidate(cand("2"))
	s.ToggleComparison("1")
	s.ToggleComparison("2")

	assert.True(t, s.RemoveCandidate("1"))
	assert.False(t, s.RemoveCandidate("1"))

	snap := s.Snapshot()
	assert.Equal(t, []string{"2"}, snap.SelectedForComparison)
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, "2", snap.Candidates[0].ID)
}

func TestUpdateNote(t *testing.T) {
	s := newFixedStore()
	s.AddCandidate(cand("1"))

	assert.True(t, s.UpdateNote("1", "strong systems background"))
	assert.False(t, s.UpdateNote("missing", "ignored"))

	snap := s.Snapshot()
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, "strong systems background", snap.Candidates[0].Note)
}

func TestToggleComparisonCap(t *testing.T) {
	s := newFixedStore()
	for _, id := range []string{"1", "2", "3", "4"} {
		s.AddCandidate(cand(id))
	}

	assert.True(t, s.ToggleComparison("1"))
	assert.True(t, s.ToggleComparison("2"))
	assert.True(t, s.ToggleComparison("3"))
	assert.False(t, s.ToggleComparison("4"))
	assert.Equal(t, []string{"1", "2", "3"}, s.Snapshot().SelectedForComparison)

	// toggling off frees a slot
	assert.True(t, s.ToggleComparison("2"))
	assert.True(t, s.ToggleComparison("4"))
	assert.Equal(t, []string{"1", "3", "4"}, s.Snapshot().SelectedForComparison)

	compared := s.Compare()
	require.Len(t, compared, 3)
	assert.Equal(t, "4", compared[2].ID)

	assert.True(t, s.ClearComparison())
	assert.False(t, s.ClearComparison())
	assert.Empty(t, s.Snapshot().SelectedForComparison)
}

func TestToggleComparisonRequiresShortlisted(t *testing.T) {
	s := newFixedStore()
	assert.False(t, s.ToggleComparison("ghost"))
	assert.Empty(t, s.Snapshot().SelectedForComparison)
}

func TestMembershipIndependentOfComparison(t *testing.T) {
	s := newFixedStore()
	s.AddCandidate(cand("1"))
	s.ToggleComparison("1")
	s.ClearComparison()
	assert.True(t, s.IsShortlisted("1"))
}

func TestTalentedUsers(t *testing.T) {
	s := newFixedStore()
	u := models.SearchResultItem{ID: "t1", Name: "Talent"}

	assert.True(t, s.AddTalentedUser(u))
	assert.False(t, s.AddTalentedUser(u))
	assert.True(t, s.IsTalentedUserShortlisted("t1"))

	assert.True(t, s.RemoveTalentedUser("t1"))
	assert.False(t, s.RemoveTalentedUser("t1"))
	assert.Empty(t, s.Snapshot().TalentedUsers)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newFixedStore()
	s.AddCandidate(cand("1"))
	s.AddCandidate(cand("2"))
	s.UpdateNote("2", "follow up")
	s.AddTalentedUser(models.SearchResultItem{ID: "t1"})
	s.ToggleComparison("2")

	b, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var st models.ShortlistState
	require.NoError(t, json.Unmarshal(b, &st))
	restored := Restore(st)

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestRestoreSanitizes(t *testing.T) {
	st := models.ShortlistState{
		Candidates: []models.ShortlistEntry{
			{Candidate: cand("1")}, {Candidate: cand("1")}, {Candidate: cand("2")},
			{Candidate: cand("3")}, {Candidate: cand("4")},
		},
		SelectedForComparison: []string{"ghost", "1", "1", "2", "3", "4"},
	}
	snap := Restore(st).Snapshot()

	assert.Len(t, snap.Candidates, 4)
	assert.Equal(t, []string{"1", "2", "3"}, snap.SelectedForComparison)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newFixedStore()
	s.AddCandidate(cand("1"))

	snap := s.Snapshot()
	snap.Candidates[0].Note = "mutated"
	assert.Empty(t, s.Snapshot().Candidates[0].Note)
}
