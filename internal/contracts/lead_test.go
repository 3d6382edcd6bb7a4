package contracts

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreTier
	}{
		{100, TierHot},
		{80, TierHot},
		{79, TierWarm},
		{60, TierWarm},
		{59, TierNurture},
		{40, TierNurture},
		{39, TierCold},
		{0, TierCold},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestComponentMapFirstWins(t *testing.T) {
	var m ComponentMap

	if !m.Add("funding", ScoreComponent{Points: 30, Reason: "recent round"}) {
		t.Fatal("first add should succeed")
	}
	if m.Add("funding", ScoreComponent{Points: 10, Reason: "older round"}) {
		t.Fatal("duplicate add should be rejected")
	}

	c, ok := m.Get("funding")
	if !ok || c.Points != 30 {
		t.Errorf("kept component = %+v, want the first one", c)
	}
	if m.Sum() != 30 {
		t.Errorf("Sum() = %d, want 30", m.Sum())
	}
}

func TestComponentMapOrderedJSON(t *testing.T) {
	var m ComponentMap
	m.Add("zeta", ScoreComponent{Points: 1, Reason: "z"})
	m.Add("alpha", ScoreComponent{Points: 2, Reason: "a"})
	m.Add("mid", ScoreComponent{Points: 3, Reason: "m"})

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(out)
	zi := strings.Index(s, "zeta")
	ai := strings.Index(s, "alpha")
	mi := strings.Index(s, "mid")
	if !(zi < ai && ai < mi) {
		t.Errorf("insertion order not preserved in %s", s)
	}

	var back ComponentMap
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 3 {
		t.Errorf("round trip lost components: %d", back.Len())
	}
}
