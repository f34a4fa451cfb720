package progression

import "testing"

func TestCurrentRankThresholds(t *testing.T) {
	s := New()
	tests := []struct {
		xp    int
		index int
		name  string
	}{
		{-50, 0, "Middle School Novice"},
		{0, 0, "Middle School Novice"},
		{999, 0, "Middle School Novice"},
		{1000, 1, "Algebra Apprentice"},
		{2999, 1, "Algebra Apprentice"},
		{59999, 8, "Abstract Alchemist"},
		{60000, 9, "Theoretical Titan"},
		{1000000, 9, "Theoretical Titan"},
	}
	for _, tc := range tests {
		got := s.CurrentRank(tc.xp)
		if got.Index != tc.index || got.Name != tc.name {
			t.Errorf("CurrentRank(%d) = %d %q, want %d %q", tc.xp, got.Index, got.Name, tc.index, tc.name)
		}
	}
}

func TestCurrentRankProgress(t *testing.T) {
	s := New()
	if p := s.CurrentRank(2000).Progress; p != 50 {
		t.Fatalf("expected 50%% progress at 2000 xp, got %v", p)
	}
	if p := s.CurrentRank(0).Progress; p != 0 {
		t.Fatalf("expected 0%% progress at 0 xp, got %v", p)
	}
	if p := s.CurrentRank(75000).Progress; p != 100 {
		t.Fatalf("expected 100%% progress at the terminal rank, got %v", p)
	}
}

func TestCurrentRankIsMonotonic(t *testing.T) {
	s := New()
	prev := s.CurrentRank(-10)
	for xp := 0; xp <= 70000; xp += 25 {
		cur := s.CurrentRank(xp)
		if cur.Index < prev.Index {
			t.Fatalf("rank regressed at %d xp: %d -> %d", xp, prev.Index, cur.Index)
		}
		if cur.Progress < 0 || cur.Progress > 100 {
			t.Fatalf("progress %v out of range at %d xp", cur.Progress, xp)
		}
		prev = cur
	}
}

func TestNextRankRequirement(t *testing.T) {
	s := New()
	req, ok := s.NextRankRequirement(1300)
	if !ok {
		t.Fatal("expected a next rank at 1300 xp")
	}
	if req.NextRank != "Geometry Scholar" || req.XPNeeded != 1700 {
		t.Fatalf("unexpected requirement %+v", req)
	}
	// xpNeeded plus current xp is the absolute threshold
	if req.XPNeeded+1300 != Ranks[2].XPRequired {
		t.Fatalf("expected threshold identity to hold")
	}

	if _, ok := s.NextRankRequirement(60000); ok {
		t.Fatal("expected no next rank at the terminal rank")
	}
}
