package ranking

import (
	"fmt"
	"testing"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
)

func testProfile() profile.Profile {
	return profile.Profile{
		Personal: profile.PersonalInfo{ExperienceLevel: profile.ExperienceIntermediate},
		Technical: profile.TechnicalProfile{
			Languages: []profile.LanguageSkill{{Language: "Python", Level: "advanced"}},
			Skills:    []string{"Docker"},
		},
		Aspirations: profile.Aspirations{Interests: []string{"AI"}},
		Constraints: profile.Constraints{TimeCommitment: profile.CommitmentModerate},
	}
}

func TestRelevance(t *testing.T) {
	// One tech overlap (python) and one interest match ("ai" in the title):
	// min(2,5) + min(2,3) + 2 = 6.
	c := catalog.Candidate{
		Title:        "AI Chatbot",
		Description:  "Build a conversational assistant",
		Technologies: []string{"Python", "FastAPI"},
	}
	got := relevance(c, testProfile())
	if got != 6 {
		t.Errorf("relevance = %v, want 6", got)
	}
}

func TestRelevance_Caps(t *testing.T) {
	p := testProfile()
	p.Technical.Skills = []string{"a", "b", "c", "d", "e"}
	p.Aspirations.Interests = []string{"x", "y", "z"}
	c := catalog.Candidate{
		Title:        "x y z",
		Technologies: []string{"a", "b", "c", "d", "e"},
	}
	// Overlap contribution caps at 5, interest at 3, plus base 2 = 10.
	if got := relevance(c, p); got != 10 {
		t.Errorf("relevance = %v, want 10", got)
	}
}

func TestRelevance_NoMatches(t *testing.T) {
	c := catalog.Candidate{Title: "Inventory Tracker", Technologies: []string{"Cobol"}}
	if got := relevance(c, profile.Profile{}); got != 2 {
		t.Errorf("relevance = %v, want base 2", got)
	}
}

func TestFeasibility_ExperienceAdjustments(t *testing.T) {
	adv := catalog.Candidate{Difficulty: catalog.DifficultyAdvanced, EstimatedTime: "4 weeks"}
	beg := catalog.Candidate{Difficulty: catalog.DifficultyBeginner, EstimatedTime: "4 weeks"}

	p := testProfile()
	p.Personal.ExperienceLevel = profile.ExperienceBeginner
	if got := feasibility(adv, p); got != 3 {
		t.Errorf("beginner on advanced work = %v, want 3", got)
	}

	p.Personal.ExperienceLevel = profile.ExperienceAdvanced
	if got := feasibility(beg, p); got != 6 {
		t.Errorf("advanced on beginner work = %v, want 6", got)
	}
}

func TestFeasibility_TimeAdjustments(t *testing.T) {
	long := catalog.Candidate{Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "6-8 weeks"}
	short := catalog.Candidate{Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "2-3 weeks"}

	p := testProfile()
	p.Constraints.TimeCommitment = profile.CommitmentLow
	if got := feasibility(long, p); got != 3 {
		t.Errorf("low commitment on 8-week project = %v, want 3", got)
	}

	p.Constraints.TimeCommitment = profile.CommitmentHigh
	if got := feasibility(short, p); got != 6 {
		t.Errorf("high commitment on 3-week project = %v, want 6", got)
	}

	// Moderate commitment applies no time adjustment either way.
	p.Constraints.TimeCommitment = profile.CommitmentModerate
	if got := feasibility(long, p); got != 5 {
		t.Errorf("moderate commitment on 8-week project = %v, want 5", got)
	}
	if got := feasibility(short, p); got != 5 {
		t.Errorf("moderate commitment on 3-week project = %v, want 5", got)
	}
}

func TestFeasibility_NoWeekGuard(t *testing.T) {
	// Durations not phrased in weeks skip the time adjustment entirely.
	c := catalog.Candidate{Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "2 months"}
	p := testProfile()
	p.Constraints.TimeCommitment = profile.CommitmentLow
	if got := feasibility(c, p); got != 5 {
		t.Errorf("feasibility = %v, want 5", got)
	}
}

func TestExtractMaxWeeks(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"6-8 weeks", 8},
		{"3 weeks", 3},
		{"a few weeks", 6},
		{"", 6},
		{"12-16 weeks", 16},
	}
	for _, tc := range cases {
		if got := ExtractMaxWeeks(tc.in); got != tc.want {
			t.Errorf("ExtractMaxWeeks(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestScore_WeightsAndDefaultImpact(t *testing.T) {
	c := catalog.Candidate{
		Title:         "AI Chatbot",
		Technologies:  []string{"Python"},
		Difficulty:    catalog.DifficultyIntermediate,
		EstimatedTime: "4 weeks",
	}
	Score(&c, testProfile())

	if c.ImpactScore != 7 {
		t.Errorf("ImpactScore = %v, want default 7", c.ImpactScore)
	}
	want := 0.4*c.RelevanceScore + 0.3*c.FeasibilityScore + 0.3*c.ImpactScore
	if c.OverallScore != want {
		t.Errorf("OverallScore = %v, want %v", c.OverallScore, want)
	}
}

func TestScore_Idempotent(t *testing.T) {
	c := catalog.Candidate{
		Title:         "AI Chatbot",
		Technologies:  []string{"Python"},
		Difficulty:    catalog.DifficultyIntermediate,
		EstimatedTime: "4 weeks",
		ImpactScore:   8.5,
	}
	p := testProfile()
	Score(&c, p)
	first := c
	Score(&c, p)
	if c.RelevanceScore != first.RelevanceScore ||
		c.FeasibilityScore != first.FeasibilityScore ||
		c.ImpactScore != first.ImpactScore ||
		c.OverallScore != first.OverallScore {
		t.Errorf("rescoring changed the scores: %+v vs %+v", c, first)
	}
}

func TestScore_ClampsImpact(t *testing.T) {
	c := catalog.Candidate{ImpactScore: 42}
	Score(&c, profile.Profile{})
	if c.ImpactScore != 10 {
		t.Errorf("ImpactScore = %v, want 10", c.ImpactScore)
	}
}

func TestRank_OrderAndDiversity(t *testing.T) {
	var candidates []catalog.Candidate
	// Five candidates from one domain with descending impact, plus two from
	// another; the per-domain cap must keep only two of the first five.
	for i := 0; i < 5; i++ {
		candidates = append(candidates, catalog.Candidate{
			Title:         fmt.Sprintf("AI project %d", i),
			Domain:        "ai_ml",
			Difficulty:    catalog.DifficultyIntermediate,
			EstimatedTime: "4 weeks",
			ImpactScore:   9 - float64(i),
		})
	}
	candidates = append(candidates,
		catalog.Candidate{Title: "Web A", Domain: "web_development", Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "4 weeks", ImpactScore: 5},
		catalog.Candidate{Title: "Web B", Domain: "Web_Development", Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "4 weeks", ImpactScore: 4},
	)

	ranked := New().Rank(candidates, testProfile())

	if len(ranked) != 4 {
		t.Fatalf("got %d results, want 4: %+v", len(ranked), ranked)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].OverallScore > ranked[i-1].OverallScore {
			t.Errorf("order violated at %d: %v > %v", i, ranked[i].OverallScore, ranked[i-1].OverallScore)
		}
	}
	counts := map[string]int{}
	for _, c := range ranked {
		counts["ai_ml"] += b2i(c.Domain == "ai_ml")
	}
	if counts["ai_ml"] != 2 {
		t.Errorf("ai_ml kept %d times, want 2", counts["ai_ml"])
	}
	// Domain comparison is case-insensitive: Web A and Web B share a bucket.
	if ranked[len(ranked)-1].Title != "Web B" {
		t.Errorf("last = %q, want Web B", ranked[len(ranked)-1].Title)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	mk := func(title, domain string) catalog.Candidate {
		return catalog.Candidate{
			Title: title, Domain: domain,
			Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "4 weeks",
			ImpactScore: 7,
		}
	}
	candidates := []catalog.Candidate{
		mk("First", "a"), mk("Second", "b"), mk("Third", "c"),
	}
	ranked := New().Rank(candidates, profile.Profile{})
	if len(ranked) != 3 {
		t.Fatalf("got %d results", len(ranked))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if ranked[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, ranked[i].Title, want)
		}
	}
}

func TestRank_DropsErrorSentinels(t *testing.T) {
	candidates := []catalog.Candidate{
		catalog.ErrorCandidate("boom"),
		{Title: "Real", Domain: "a", Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "4 weeks"},
	}
	ranked := New().Rank(candidates, profile.Profile{})
	if len(ranked) != 1 || ranked[0].Title != "Real" {
		t.Errorf("ranked = %+v", ranked)
	}
}

func TestRank_TruncatesToTen(t *testing.T) {
	var candidates []catalog.Candidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, catalog.Candidate{
			Title:         fmt.Sprintf("p%d", i),
			Domain:        fmt.Sprintf("d%d", i),
			Difficulty:    catalog.DifficultyIntermediate,
			EstimatedTime: "4 weeks",
		})
	}
	if got := len(New().Rank(candidates, profile.Profile{})); got != 10 {
		t.Errorf("got %d results, want 10", got)
	}
}

func TestRankJSON_InvalidProfile(t *testing.T) {
	out := New().RankJSON([]catalog.Candidate{{Title: "x"}}, "{not json")
	if len(out) != 1 || !out[0].IsError() {
		t.Fatalf("expected a single error sentinel, got %+v", out)
	}
}

func TestRankJSON_ValidProfile(t *testing.T) {
	out := New().RankJSON(
		[]catalog.Candidate{{Title: "x", Difficulty: catalog.DifficultyIntermediate, EstimatedTime: "4 weeks"}},
		`{"personal_info":{"experience_level":"intermediate"}}`,
	)
	if len(out) != 1 || out[0].IsError() {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out[0].OverallScore == 0 {
		t.Error("candidate not scored")
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
