package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Selection
		want Selection
	}{
		{"sorted", Selection{"A", "B"}, Selection{"A", "B"}},
		{"reversed", Selection{"B", "A"}, Selection{"A", "B"}},
		{"duplicates", Selection{"B", "A", "B", "A"}, Selection{"A", "B"}},
		{"single", Selection{"MISSION"}, Selection{"MISSION"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSelection_NormalizeDoesNotMutate(t *testing.T) {
	s := Selection{"C", "A", "B"}
	_ = s.Normalize()
	assert.Equal(t, Selection{"C", "A", "B"}, s)
}

func TestSelection_Key(t *testing.T) {
	assert.Equal(t, Selection{"A", "B"}.Key(), Selection{"B", "A"}.Key())
	assert.Equal(t, Selection{"A", "B"}.Key(), Selection{"B", "A", "A"}.Key())
	assert.NotEqual(t, Selection{"A"}.Key(), Selection{"A", "B"}.Key())
	assert.Equal(t, "", Selection{}.Key())
	assert.Equal(t, Selection(nil).Key(), Selection{}.Key())
}

func TestSelection_KeyDistinguishesJoinedNames(t *testing.T) {
	// "A B" as one name must not collide with "A" and "B".
	assert.NotEqual(t, Selection{"A B"}.Key(), Selection{"A", "B"}.Key())
}

func TestSelection_Unique(t *testing.T) {
	got := Selection{"TENDERLOIN", "MISSION", "TENDERLOIN", "BAYVIEW", "MISSION"}.Unique()
	assert.Equal(t, Selection{"TENDERLOIN", "MISSION", "BAYVIEW"}, got)
	assert.Empty(t, Selection{}.Unique())
}

func TestSelection_Set(t *testing.T) {
	set := Selection{"A", "B", "A"}.Set()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "A")
	assert.Contains(t, set, "B")
}

func TestBase_DistrictNames(t *testing.T) {
	b := &Base{Aggregates: []Aggregate{{District: "X", CrimeLevel: 1}, {District: "Y", CrimeLevel: 2}}}
	assert.Equal(t, []string{"X", "Y"}, b.DistrictNames())
}

func TestDistrict_Clone(t *testing.T) {
	d := District{Name: "X", Properties: map[string]any{"k": "v"}}
	c := d.Clone()
	c.Properties["k"] = "changed"
	c.CrimeLevel = 9
	assert.Equal(t, "v", d.Properties["k"])
	assert.Zero(t, d.CrimeLevel)
}
