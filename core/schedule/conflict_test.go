package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	at := MustParseTimeOfDay

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"same interval", Interval{at("07:00"), at("08:30")}, Interval{at("07:00"), at("08:30")}, true},
		{"partial overlap", Interval{at("07:00"), at("08:30")}, Interval{at("08:00"), at("09:00")}, true},
		{"contained", Interval{at("07:00"), at("10:00")}, Interval{at("08:00"), at("09:00")}, true},
		{"back to back", Interval{at("07:00"), at("08:30")}, Interval{at("08:30"), at("09:30")}, false},
		{"back to back reversed", Interval{at("08:30"), at("09:30")}, Interval{at("07:00"), at("08:30")}, false},
		{"disjoint", Interval{at("07:00"), at("08:00")}, Interval{at("10:00"), at("11:00")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

// every pair of quarter-hour intervals within a morning
func TestOverlaps_matchesDefinition(t *testing.T) {
	const step = 15
	for s1 := 7 * 60; s1 < 12*60; s1 += step {
		for e1 := s1 + step; e1 <= 12*60; e1 += step {
			for s2 := 7 * 60; s2 < 12*60; s2 += step {
				for e2 := s2 + step; e2 <= 12*60; e2 += step {
					a := Interval{TimeOfDay(s1), TimeOfDay(e1)}
					b := Interval{TimeOfDay(s2), TimeOfDay(e2)}
					want := s1 < e2 && s2 < e1
					if got := Overlaps(a, b); got != want {
						t.Fatalf("Overlaps(%v-%v, %v-%v) = %v; want %v", a.Start, a.End, b.Start, b.End, got, want)
					}
				}
			}
		}
	}
}

func TestFindConflict(t *testing.T) {
	at := MustParseTimeOfDay
	existing := []Entry{
		{ID: "e1", TeacherID: "t1", ClassID: "7a", Day: Monday, Start: at("07:00"), End: at("08:30")},
		{ID: "e2", TeacherID: "t2", ClassID: "7b", Day: Tuesday, Start: at("09:00"), End: at("10:00")},
	}

	tests := []struct {
		name      string
		candidate Entry
		wantID    string
	}{
		{
			name:      "same class overlapping",
			candidate: Entry{TeacherID: "t3", ClassID: "7a", Day: Monday, Start: at("08:00"), End: at("09:00")},
			wantID:    "e1",
		},
		{
			name:      "same teacher overlapping",
			candidate: Entry{TeacherID: "t1", ClassID: "7c", Day: Monday, Start: at("08:00"), End: at("09:00")},
			wantID:    "e1",
		},
		{
			name:      "other day",
			candidate: Entry{TeacherID: "t1", ClassID: "7a", Day: Wednesday, Start: at("07:00"), End: at("08:30")},
		},
		{
			name:      "other class and teacher",
			candidate: Entry{TeacherID: "t3", ClassID: "7c", Day: Monday, Start: at("07:00"), End: at("08:30")},
		},
		{
			name:      "back to back",
			candidate: Entry{TeacherID: "t1", ClassID: "7a", Day: Monday, Start: at("08:30"), End: at("09:30")},
		},
		{
			name:      "itself",
			candidate: Entry{ID: "e1", TeacherID: "t1", ClassID: "7a", Day: Monday, Start: at("07:30"), End: at("08:30")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clash, ok := FindConflict(tt.candidate, existing)
			assert.Equal(t, tt.wantID != "", ok)
			assert.Equal(t, tt.wantID, clash.ID)
			assert.Equal(t, ok, CheckConflict(tt.candidate, existing))
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:05")
	assert.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(8, 5), tod)
	assert.Equal(t, "08:05", tod.String())

	for _, s := range []string{"", "8:05", "24:00", "12:60", "noon"} {
		_, err := ParseTimeOfDay(s)
		assert.Error(t, err, s)
	}

	end, err := ParseEndTimeOfDay("24:00")
	assert.NoError(t, err)
	assert.Equal(t, EndOfDay, end)
	assert.Equal(t, "24:00", end.String())
	assert.Equal(t, NewTimeOfDay(23, 30), MustParseEndTimeOfDay("23:30"))

	for _, s := range []string{"24:01", "25:00", "00:60"} {
		_, err := ParseEndTimeOfDay(s)
		assert.Error(t, err, s)
	}
}
