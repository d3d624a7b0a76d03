package profile

import (
	"strings"
	"testing"
)

func TestParseLanguages(t *testing.T) {
	got := ParseLanguages("Python - advanced, Go-beginner , Rust")
	want := []LanguageSkill{
		{Language: "Python", Level: "advanced"},
		{Language: "Go", Level: "beginner"},
		{Language: "Rust", Level: "unknown"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d languages, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("language %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseLanguages_SplitsOnFirstHyphenOnly(t *testing.T) {
	got := ParseLanguages("Objective-C - intermediate")
	if len(got) != 1 {
		t.Fatalf("got %d languages, want 1", len(got))
	}
	// The first hyphen wins, so the "language" is Objective and the rest is
	// the level. This mirrors the historical behaviour exactly.
	if got[0].Language != "Objective" {
		t.Errorf("language = %q", got[0].Language)
	}
	if got[0].Level != "C - intermediate" {
		t.Errorf("level = %q", got[0].Level)
	}
}

func TestParseLanguages_Empty(t *testing.T) {
	if got := ParseLanguages("  "); got != nil {
		t.Errorf("expected nil for blank input, got %+v", got)
	}
}

func TestNormalizeExperience(t *testing.T) {
	cases := []struct {
		in      string
		level   string
		matched bool
	}{
		{"I'm new to this", ExperienceBeginner, true},
		{"just learning", ExperienceBeginner, true},
		{"some experience", ExperienceIntermediate, true},
		{"Moderate, I'd say", ExperienceIntermediate, true},
		{"Senior engineer", ExperienceAdvanced, true},
		{"experienced", ExperienceAdvanced, true},
		{"professional developer", ExperienceExpert, true},
		{"MASTER of none", ExperienceExpert, true},
		{"banana", "banana", false},
		{"  Wizard  ", "wizard", false},
	}
	for _, tc := range cases {
		level, matched := NormalizeExperience(tc.in)
		if level != tc.level || matched != tc.matched {
			t.Errorf("NormalizeExperience(%q) = (%q, %v), want (%q, %v)",
				tc.in, level, matched, tc.level, tc.matched)
		}
	}
}

func TestNormalizeCommitment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", CommitmentModerate},
		{"low", CommitmentLow},
		{"pretty high", CommitmentHigh},
		{"moderate", CommitmentModerate},
		{"medium", CommitmentModerate},
		{"about 3 hours a week", CommitmentLow},
		{"4 hours", CommitmentLow},
		{"10 hours per week", CommitmentModerate},
		{"5-12 hours", CommitmentModerate},
		{"20 hours weekly", CommitmentHigh},
		{"whenever I can", CommitmentModerate},
	}
	for _, tc := range cases {
		if got := NormalizeCommitment(tc.in); got != tc.want {
			t.Errorf("NormalizeCommitment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeBudget(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", BudgetFree},
		{"no constraints", BudgetHigh},
		{"high", BudgetHigh},
		{"moderate budget", BudgetModerate},
		{"low", BudgetLow},
		{"only free tools please", BudgetFree},
	}
	for _, tc := range cases {
		if got := NormalizeBudget(tc.in); got != tc.want {
			t.Errorf("NormalizeBudget(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuild(t *testing.T) {
	answers := map[string]string{
		KeyName:       "Dana",
		KeyRole:       "Backend Developer",
		KeyExperience: "around 3 years, intermediate",
		KeyLanguages:  "Python - advanced, Go - beginner",
		KeyInterests:  "AI, web development, AI",
		KeyGoals:      "move into machine learning with TensorFlow",
	}

	p := Build(answers)

	if !strings.HasPrefix(p.ID, "session_") {
		t.Errorf("ID = %q, want session_ prefix", p.ID)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if p.Personal.Name != "Dana" {
		t.Errorf("Name = %q", p.Personal.Name)
	}
	if p.Personal.ExperienceLevel != ExperienceIntermediate {
		t.Errorf("ExperienceLevel = %q", p.Personal.ExperienceLevel)
	}
	if len(p.Technical.Languages) != 2 {
		t.Fatalf("Languages = %+v", p.Technical.Languages)
	}
	if p.Technical.Languages[0].Language != "Python" || p.Technical.Languages[0].Level != "advanced" {
		t.Errorf("Languages[0] = %+v", p.Technical.Languages[0])
	}
	// Duplicate interest collapses.
	if len(p.Aspirations.Interests) != 2 {
		t.Errorf("Interests = %+v", p.Aspirations.Interests)
	}
	if p.Constraints.TimeCommitment != CommitmentModerate {
		t.Errorf("TimeCommitment = %q", p.Constraints.TimeCommitment)
	}
	if p.Constraints.BudgetRange != BudgetFree {
		t.Errorf("BudgetRange = %q", p.Constraints.BudgetRange)
	}
	// 6 of 10 canonical answers filled.
	if p.Metadata.Completeness != 0.6 {
		t.Errorf("Completeness = %v, want 0.6", p.Metadata.Completeness)
	}
	if p.Metadata.NeedsClarification {
		t.Error("NeedsClarification should be false for a matched level")
	}
	// TensorFlow comes from the goals answer via skill extraction.
	found := false
	for _, s := range p.Technical.Skills {
		if strings.EqualFold(s, "tensorflow") {
			found = true
		}
	}
	if !found {
		t.Errorf("Skills missing Tensorflow: %+v", p.Technical.Skills)
	}
}

func TestBuild_UnmatchedExperienceFlagsClarification(t *testing.T) {
	p := Build(map[string]string{KeyExperience: "galactic"})
	if p.Personal.ExperienceLevel != "galactic" {
		t.Errorf("ExperienceLevel = %q, want raw value preserved", p.Personal.ExperienceLevel)
	}
	if !p.Metadata.NeedsClarification {
		t.Error("NeedsClarification should be set for an unmatched level")
	}
}

func TestBuild_EmptyAnswers(t *testing.T) {
	p := Build(map[string]string{})
	if p.Metadata.Completeness != 0 {
		t.Errorf("Completeness = %v, want 0", p.Metadata.Completeness)
	}
	if p.Metadata.NeedsClarification {
		t.Error("an absent experience answer is not a clarification case")
	}
	if p.Constraints.TimeCommitment != CommitmentModerate {
		t.Errorf("TimeCommitment = %q, want default moderate", p.Constraints.TimeCommitment)
	}
}

func TestSkillSet_DedupesAndLowercases(t *testing.T) {
	p := Profile{
		Technical: TechnicalProfile{
			Languages: []LanguageSkill{{Language: "Python"}, {Language: "python"}},
			Skills:    []string{"Docker", "Python"},
		},
	}
	got := p.SkillSet()
	want := []string{"python", "docker"}
	if len(got) != len(want) {
		t.Fatalf("SkillSet = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SkillSet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
