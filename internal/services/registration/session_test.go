package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classreg/internal/dependencies/mocks"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/services/sorting"
)

var testClasses = []model.ClassInfo{
	{ID: "pottery", Name: "Pottery", Period: model.Period1st, AgeRange: model.AgeRangeK2},
	{ID: "choir", Name: "Choir", Period: model.Period1st, AgeRange: model.AgeRangeGrades35},
	{ID: "chem", Name: "Chemistry", Period: model.Period2nd, AgeRange: model.AgeRangeGrades68},
}

func newTestSession() (*Session, *mocks.MockRandom) {
	rnd := mocks.NewMockRandom()
	return NewSession("tok", rnd), rnd
}

func TestAddAndUpdateChild(t *testing.T) {
	s, rnd := newTestSession()
	rnd.QueueUUID("k1")

	row := s.AddChild("pottery")
	assert.Equal(t, model.ChildID("k1"), row.ID)
	assert.False(t, row.IsComplete())

	require.NoError(t, s.UpdateChild("pottery", "k1", "  alice", "SMITH "))

	children := s.Children("pottery")
	require.Len(t, children, 1)
	assert.Equal(t, "Alice", children[0].FirstName)
	assert.Equal(t, "Smith", children[0].LastName)
}

func TestUpdateUnknownChild(t *testing.T) {
	s, _ := newTestSession()
	s.AddChild("pottery")

	assert.ErrorIs(t, s.UpdateChild("pottery", "nope", "A", "B"), model.ErrChildNotFound)
	assert.ErrorIs(t, s.RemoveChild("choir", "nope"), model.ErrChildNotFound)
}

func TestRemoveChild(t *testing.T) {
	s, rnd := newTestSession()
	rnd.QueueUUID("k1", "k2")
	s.AddChild("pottery")
	s.AddChild("pottery")

	require.NoError(t, s.RemoveChild("pottery", "k1"))

	children := s.Children("pottery")
	require.Len(t, children, 1)
	assert.Equal(t, model.ChildID("k2"), children[0].ID)
}

func TestRecheckFindsAndClearsConflict(t *testing.T) {
	s, _ := newTestSession()
	s.SetChildren("pottery", []model.Child{{FirstName: "Alice", LastName: "Smith"}})
	s.SetChildren("choir", []model.Child{{FirstName: "alice", LastName: "smith"}})

	err := s.Recheck(testClasses)
	require.ErrorIs(t, err, model.ErrRegistrationConflict)
	assert.Contains(t, err.Error(), "Alice Smith")
	assert.Contains(t, err.Error(), "1st period")
	assert.False(t, s.CanSubmit())

	// Moving the second class to another period clears it
	moved := append([]model.ClassInfo(nil), testClasses...)
	moved[1].Period = model.Period2nd
	assert.NoError(t, s.Recheck(moved))
	assert.NoError(t, s.Conflict())
	assert.True(t, s.CanSubmit())
}

func TestCanSubmitNeedsACompleteChild(t *testing.T) {
	s, _ := newTestSession()
	assert.False(t, s.CanSubmit())

	s.AddChild("pottery")
	require.NoError(t, s.Recheck(testClasses))
	assert.False(t, s.CanSubmit())
	assert.Empty(t, s.ActiveClasses())

	s.SetChildren("pottery", []model.Child{{FirstName: "Ada", LastName: "Lovelace"}})
	require.NoError(t, s.Recheck(testClasses))
	assert.True(t, s.CanSubmit())
	assert.Equal(t, []model.ClassID{"pottery"}, s.ActiveClasses())
}

func TestSummaryFollowsClassOrderAndSkipsIncomplete(t *testing.T) {
	s, _ := newTestSession()
	s.SetChildren("chem", []model.Child{{FirstName: "dee", LastName: "ray"}, {FirstName: "Solo"}})
	s.SetChildren("pottery", []model.Child{{FirstName: "Ada", LastName: "Lovelace"}})
	s.SetChildren("choir", []model.Child{{FirstName: "", LastName: ""}})

	summary := s.Summary(testClasses)

	require.Len(t, summary, 2)
	assert.Equal(t, model.ClassID("pottery"), summary[0].Class.ID)
	assert.Equal(t, model.ClassID("chem"), summary[1].Class.ID)
	require.Len(t, summary[1].Children, 1)
	assert.Equal(t, "Dee", summary[1].Children[0].FirstName)
	assert.Equal(t, "Ray", summary[1].Children[0].LastName)
}

func TestToggleSort(t *testing.T) {
	s, _ := newTestSession()
	assert.Equal(t, sorting.DefaultConfig(), s.Sort())

	cfg := s.ToggleSort(sorting.KeyAgeRange)
	assert.Equal(t, sorting.Desc, cfg.Direction)

	cfg = s.ToggleSort(sorting.KeyPeriod)
	assert.Equal(t, sorting.Config{Key: sorting.KeyPeriod, Direction: sorting.Asc}, cfg)
}

func TestResetKeepsSort(t *testing.T) {
	s, _ := newTestSession()
	s.ToggleSort(sorting.KeyPeriod)
	s.SetChildren("pottery", []model.Child{{FirstName: "Ada", LastName: "Lovelace"}})
	s.MarkSubmitted(s.Summary(testClasses))
	assert.True(t, s.Submitted())
	assert.False(t, s.CanSubmit())

	s.Reset()

	assert.False(t, s.Submitted())
	assert.Empty(t, s.SubmittedSummary())
	assert.Zero(t, s.Selection().Len())
	assert.Equal(t, sorting.KeyPeriod, s.Sort().Key)
}
