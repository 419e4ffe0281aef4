package model

import (
	"regexp"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugifyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		slug := Slugify(name)

		if slug != "" && !slugShape.MatchString(slug) {
			t.Fatalf("Slugify(%q) = %q, not directory-safe", name, slug)
		}
		if got := Slugify(slug); got != slug {
			t.Fatalf("not idempotent: Slugify(%q) = %q", slug, got)
		}
		if got := Slugify(strings.ToUpper(name)); got != slug {
			t.Fatalf("case-sensitive: %q vs %q", got, slug)
		}
	})
}

func TestToggleVoteProperties(t *testing.T) {
	userID := rapid.StringMatching(`u[0-9]{1,3}`)
	rapid.Check(t, func(t *rapid.T) {
		var s Suggestion
		toggles := rapid.SliceOfN(userID, 1, 50).Draw(t, "toggles")

		expected := map[string]bool{}
		for _, u := range toggles {
			voting := !expected[u]
			if got := s.ToggleVote(u); got != voting {
				t.Fatalf("ToggleVote(%q) = %v, want %v", u, got, voting)
			}
			expected[u] = voting

			if s.Votes != len(s.Voters) {
				t.Fatalf("votes %d != voters %d", s.Votes, len(s.Voters))
			}
			seen := map[string]bool{}
			for _, v := range s.Voters {
				if seen[v] {
					t.Fatalf("duplicate voter %q", v)
				}
				seen[v] = true
			}
		}
		for u, voting := range expected {
			has := false
			for _, v := range s.Voters {
				if v == u {
					has = true
				}
			}
			if has != voting {
				t.Fatalf("voter %q present=%v, want %v", u, has, voting)
			}
		}
	})
}

func TestRateAveragesStayInRange(t *testing.T) {
	score := rapid.Float64Range(1, 5)
	rapid.Check(t, func(t *rapid.T) {
		var in Insight
		n := rapid.IntRange(1, 20).Draw(t, "ratings")
		users := map[string]bool{}
		for i := 0; i < n; i++ {
			u := rapid.StringMatching(`u[0-9]{1,2}`).Draw(t, "user")
			users[u] = true
			in.Rate(Rating{
				UserID:        u,
				OverallRating: score.Draw(t, "overall"),
				Clarity:       score.Draw(t, "clarity"),
			})
		}
		qm := in.QualityMetrics
		if qm.RatingCount != len(users) {
			t.Fatalf("RatingCount = %d, want %d distinct users", qm.RatingCount, len(users))
		}
		if qm.AverageRating < 1 || qm.AverageRating > 5 {
			t.Fatalf("AverageRating out of range: %v", qm.AverageRating)
		}
	})
}
