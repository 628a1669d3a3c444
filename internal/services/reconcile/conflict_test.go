package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/classreg/internal/model"
)

type ConflictSuite struct {
	suite.Suite
	classes []model.ClassInfo
}

func TestConflictSuite(t *testing.T) {
	suite.Run(t, new(ConflictSuite))
}

func (s *ConflictSuite) SetupTest() {
	s.classes = []model.ClassInfo{
		{ID: "class-a", Name: "Art", Period: model.Period1st},
		{ID: "class-b", Name: "Botany", Period: model.Period1st},
		{ID: "class-c", Name: "Chess", Period: model.Period2nd},
	}
}

func (s *ConflictSuite) lookup() ClassLookup {
	return LookupFromList(s.classes)
}

func child(id, first, last string) model.Child {
	return model.Child{ID: model.ChildID(id), FirstName: first, LastName: last}
}

func (s *ConflictSuite) TestEmptySelectionHasNoConflict() {
	s.NoError(DetectConflict(model.NewSelection(), s.lookup()))
}

func (s *ConflictSuite) TestSameChildSamePeriodConflicts() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith")})
	sel.Set("class-b", []model.Child{child("2", "alice", "SMITH ")})

	err := DetectConflict(sel, s.lookup())
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrRegistrationConflict)
	s.Contains(err.Error(), "Alice Smith")
	s.Contains(err.Error(), "1st period")
	s.Equal("Error: Alice Smith is registered for multiple classes in the 1st period.", err.Error())

	var ce *ConflictError
	s.Require().True(errors.As(err, &ce))
	s.Equal(model.Period1st, ce.Period)
	s.Equal(model.ChildID("2"), ce.Child.ID)
}

func (s *ConflictSuite) TestSwitchingPeriodClearsConflict() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith")})
	sel.Set("class-b", []model.Child{child("2", "Alice", "Smith")})
	s.Require().Error(DetectConflict(sel, s.lookup()))

	s.classes[1].Period = model.Period2nd
	s.NoError(DetectConflict(sel, s.lookup()))
}

func (s *ConflictSuite) TestDifferentPeriodsAreAllowed() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith")})
	sel.Set("class-c", []model.Child{child("2", "Alice", "Smith")})

	s.NoError(DetectConflict(sel, s.lookup()))
}

func (s *ConflictSuite) TestIncompleteChildrenAreIgnored() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "")})
	sel.Set("class-b", []model.Child{child("2", "Alice", "  ")})

	s.NoError(DetectConflict(sel, s.lookup()))
}

func (s *ConflictSuite) TestUnknownClassesAreSkipped() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith")})
	sel.Set("deleted", []model.Child{child("2", "Alice", "Smith")})

	s.NoError(DetectConflict(sel, s.lookup()))
}

func (s *ConflictSuite) TestReportsOnlyFirstConflictInSelectionOrder() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith"), child("2", "Bob", "Lee")})
	sel.Set("class-b", []model.Child{child("3", "Bob", "Lee"), child("4", "Alice", "Smith")})

	err := DetectConflict(sel, s.lookup())

	var ce *ConflictError
	s.Require().True(errors.As(err, &ce))
	s.Equal("Bob", ce.Child.FirstName)
}

func (s *ConflictSuite) TestDifferentPeriodOverwritesEarlierBooking() {
	s.classes = append(s.classes, model.ClassInfo{ID: "class-d", Period: model.Period1st})

	// a(1st) then c(2nd) records 2nd; d(1st) then compares against 2nd
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith")})
	sel.Set("class-c", []model.Child{child("2", "Alice", "Smith")})
	sel.Set("class-d", []model.Child{child("3", "Alice", "Smith")})

	s.NoError(DetectConflict(sel, s.lookup()))
}

func (s *ConflictSuite) TestSameChildTwiceInOneClassConflicts() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Alice", "Smith"), child("2", "Alice", "Smith")})

	s.ErrorIs(DetectConflict(sel, s.lookup()), model.ErrRegistrationConflict)
}

func (s *ConflictSuite) TestInnerSpacingDoesNotHideConflict() {
	sel := model.NewSelection()
	sel.Set("class-a", []model.Child{child("1", "Mary  Ann", "Smith")})
	sel.Set("class-b", []model.Child{child("2", "mary ann", "smith")})

	err := DetectConflict(sel, s.lookup())
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrRegistrationConflict)
	s.Contains(err.Error(), "Mary Ann Smith")
}
