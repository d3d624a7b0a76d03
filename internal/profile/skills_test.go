package profile

import (
	"slices"
	"testing"
)

func TestExtractSkills(t *testing.T) {
	got := ExtractSkills("I use Python and Docker daily, some Power BI for dashboards")
	want := []string{"Python", "Docker", "Power Bi"}
	if !slices.Equal(got, want) {
		t.Errorf("ExtractSkills = %v, want %v", got, want)
	}
}

func TestExtractSkills_ShortTokenWordBoundary(t *testing.T) {
	// "go" inside "Django" or "Google" must not match.
	if got := ExtractSkills("Django and Google Sheets"); slices.Contains(got, "Go") {
		t.Errorf("false positive for go: %v", got)
	}
	if got := ExtractSkills("I write Go services"); !slices.Contains(got, "Go") {
		t.Errorf("missed standalone go: %v", got)
	}
}

func TestExtractSkills_Empty(t *testing.T) {
	if got := ExtractSkills("   "); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
