package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/classreg/internal/model"
)

func ids(classes []model.ClassInfo) []model.ClassID {
	out := make([]model.ClassID, len(classes))
	for i, c := range classes {
		out[i] = c.ID
	}
	return out
}

func fixture() []model.ClassInfo {
	return []model.ClassInfo{
		{ID: "a", AgeRange: model.AgeRange912, Period: model.Period1st},
		{ID: "b", AgeRange: model.AgeRangePreK, Period: model.Period3rd},
		{ID: "c", AgeRange: model.AgeRangeK2, Period: model.Period1st},
		{ID: "d", AgeRange: model.AgeRangePreK, Period: model.Period2nd},
	}
}

func TestSortByAgeRange(t *testing.T) {
	classes := fixture()

	assert.Equal(t, []model.ClassID{"b", "d", "c", "a"}, ids(Classes(classes, Config{KeyAgeRange, Asc})))
	assert.Equal(t, []model.ClassID{"a", "c", "b", "d"}, ids(Classes(classes, Config{KeyAgeRange, Desc})))
}

func TestSortByPeriod(t *testing.T) {
	classes := fixture()

	assert.Equal(t, []model.ClassID{"a", "c", "d", "b"}, ids(Classes(classes, Config{KeyPeriod, Asc})))
	assert.Equal(t, []model.ClassID{"b", "d", "a", "c"}, ids(Classes(classes, Config{KeyPeriod, Desc})))
}

func TestSortDoesNotModifyInput(t *testing.T) {
	classes := fixture()
	_ = Classes(classes, Config{KeyPeriod, Desc})

	assert.Equal(t, []model.ClassID{"a", "b", "c", "d"}, ids(classes))
}

func TestUnknownAgeRangeSortsFirst(t *testing.T) {
	classes := append(fixture(), model.ClassInfo{ID: "e", AgeRange: "Adults"})

	sorted := Classes(classes, DefaultConfig())

	assert.Equal(t, model.ClassID("e"), sorted[0].ID)
}

func TestToggle(t *testing.T) {
	cfg := DefaultConfig()

	cfg = cfg.Toggle(KeyAgeRange)
	assert.Equal(t, Config{KeyAgeRange, Desc}, cfg)

	cfg = cfg.Toggle(KeyAgeRange)
	assert.Equal(t, Config{KeyAgeRange, Asc}, cfg)

	cfg = cfg.Toggle(KeyAgeRange).Toggle(KeyPeriod)
	assert.Equal(t, Config{KeyPeriod, Asc}, cfg)
}

func TestParse(t *testing.T) {
	assert.Equal(t, KeyPeriod, ParseKey("period"))
	assert.Equal(t, KeyAgeRange, ParseKey("bogus"))
	assert.Equal(t, Desc, ParseDirection("desc"))
	assert.Equal(t, Asc, ParseDirection(""))
}

func TestByIDDesc(t *testing.T) {
	classes := fixture()
	ByIDDesc(classes)

	assert.Equal(t, []model.ClassID{"d", "c", "b", "a"}, ids(classes))
}
