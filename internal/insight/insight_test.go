package insight

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lifelab-app/lifelab/internal/domain"
)

// monthWith builds a January 2026 notebook with the given day→domains presence.
func monthWith(presence map[int][]string) domain.Notebook {
	nb := domain.NewNotebook(2026, 1)
	for day, domains := range presence {
		d := nb.Days[domain.DayKey(day)]
		for _, id := range domains {
			d = d.WithDomain(id)
		}
		nb.Days[domain.DayKey(day)] = d
	}
	return nb
}

func TestBuild_SignalArray(t *testing.T) {
	nb := monthWith(map[int][]string{
		7:  {"habits"},
		12: {"habits", "health"},
	})

	in := Build(nb)

	if len(in.SignalArray) != 31 {
		t.Fatalf("len(SignalArray) = %d, want 31", len(in.SignalArray))
	}
	if in.SignalArray[6] != 1 {
		t.Errorf("SignalArray[6] = %d, want 1", in.SignalArray[6])
	}
	if in.SignalArray[11] != 2 {
		t.Errorf("SignalArray[11] = %d, want 2", in.SignalArray[11])
	}
	if in.SignalArray[0] != 0 {
		t.Errorf("SignalArray[0] = %d, want 0", in.SignalArray[0])
	}
}

func TestBuild_DomainsSortedAndDeduped(t *testing.T) {
	nb := monthWith(map[int][]string{
		3: {"health", "career"},
		9: {"career", "habits"},
	})

	in := Build(nb)

	want := []string{"career", "habits", "health"}
	if len(in.Domains) != len(want) {
		t.Fatalf("Domains = %v, want %v", in.Domains, want)
	}
	for i := range want {
		if in.Domains[i] != want[i] {
			t.Errorf("Domains[%d] = %q, want %q", i, in.Domains[i], want[i])
		}
	}
}

func TestBuild_HeatmapBinary(t *testing.T) {
	nb := monthWith(map[int][]string{
		5: {"habits", "health"},
		6: {"health"},
	})

	in := Build(nb)

	if len(in.HeatmapMatrix) != 31 {
		t.Fatalf("rows = %d, want 31", len(in.HeatmapMatrix))
	}
	// columns follow sorted domain order: habits, health
	if got := in.HeatmapMatrix[4]; got[0] != 1 || got[1] != 1 {
		t.Errorf("day 5 row = %v, want [1 1]", got)
	}
	if got := in.HeatmapMatrix[5]; got[0] != 0 || got[1] != 1 {
		t.Errorf("day 6 row = %v, want [0 1]", got)
	}
	for i, row := range in.HeatmapMatrix {
		for j, v := range row {
			if v != 0 && v != 1 {
				t.Errorf("matrix[%d][%d] = %d, want 0 or 1 (2 is reserved, never produced)", i, j, v)
			}
		}
	}
}

func TestBuild_SingleDomainMonthObservations(t *testing.T) {
	// Entries on days 1-5 in health only; every other day stays silent.
	nb := monthWith(map[int][]string{
		1: {"health"}, 2: {"health"}, 3: {"health"}, 4: {"health"}, 5: {"health"},
	})

	in := Build(nb)

	if len(in.Observations) == 0 {
		t.Fatal("expected at least one observation")
	}
	var hasConcentrationOrGap bool
	for _, o := range in.Observations {
		if strings.Contains(o, "health") || strings.Contains(o, "stretch without entries") {
			hasConcentrationOrGap = true
		}
	}
	if !hasConcentrationOrGap {
		t.Errorf("Observations = %v, want single-domain concentration or gap", in.Observations)
	}
}

func TestObservations_NeverEvaluative(t *testing.T) {
	banned := []string{"good", "bad", "better", "worse"}

	cases := []domain.Notebook{
		monthWith(map[int][]string{1: {"health"}, 2: {"health"}, 3: {"health"}, 4: {"health"}, 5: {"health"}}),
		monthWith(func() map[int][]string {
			m := make(map[int][]string)
			for d := 1; d <= 31; d++ {
				m[d] = []string{"habits"}
			}
			return m
		}()),
		monthWith(map[int][]string{20: {"career"}, 28: {"learning", "career"}}),
	}

	for _, nb := range cases {
		for _, o := range Build(nb).Observations {
			lower := strings.ToLower(o)
			for _, w := range banned {
				if strings.Contains(lower, w) {
					t.Errorf("observation %q contains evaluative word %q", o, w)
				}
			}
		}
	}
}

func TestObservations_CappedAndNeverPadded(t *testing.T) {
	// Busy month triggering multiple patterns
	presence := make(map[int][]string)
	for d := 1; d <= 10; d++ {
		presence[d] = []string{"habits"}
	}
	nb := monthWith(presence)
	if got := len(Build(nb).Observations); got > 3 {
		t.Errorf("observations = %d, want ≤ 3", got)
	}

	// Empty month produces nothing — no filler text
	empty := domain.NewNotebook(2026, 1)
	if got := Build(empty).Observations; len(got) != 0 {
		t.Errorf("empty month observations = %v, want none", got)
	}
}

func TestBuild_PureAndDeterministic(t *testing.T) {
	nb := monthWith(map[int][]string{
		2: {"habits", "learning"}, 9: {"health"}, 17: {"habits"},
	})
	before, _ := json.Marshal(nb)

	a := Build(nb)
	b := Build(nb)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("two builds differ:\n%s\n%s", ja, jb)
	}

	after, _ := json.Marshal(nb)
	if string(before) != string(after) {
		t.Error("Build mutated its input notebook")
	}
}
