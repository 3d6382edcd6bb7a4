package contracts

import "testing"

func TestInferSeniority(t *testing.T) {
	tests := []struct {
		title string
		want  Seniority
	}{
		{"Chief Technology Officer", SeniorityCLevel},
		{"CEO", SeniorityCLevel},
		{"Co-Founder", SeniorityCLevel},
		{"Vice President of Sales", SeniorityVP},
		{"VP Engineering", SeniorityVP},
		{"Director of Marketing", SeniorityDirector},
		{"Head of Growth", SeniorityDirector},
		{"Engineering Manager", SeniorityManager},
		{"Senior Software Engineer", SenioritySenior},
		{"Junior Developer", SeniorityJunior},
		{"Software Engineer", SeniorityIndividual},
		{"", ""},
	}

	for _, tt := range tests {
		if got := InferSeniority(tt.title); got != tt.want {
			t.Errorf("InferSeniority(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestEffectiveSeniority(t *testing.T) {
	explicit := &ContactSnapshot{Title: "Engineer", Seniority: SeniorityVP}
	if got := explicit.EffectiveSeniority(); got != SeniorityVP {
		t.Errorf("explicit seniority should win, got %q", got)
	}

	inferred := &ContactSnapshot{Title: "Director of Ops"}
	if got := inferred.EffectiveSeniority(); got != SeniorityDirector {
		t.Errorf("inferred = %q, want Director", got)
	}
}
