// Package linker infers log-to-goal links from shared tags. Everything here is
// pure so the same code backs the client-side preview and the server-side
// association write.
package linker

import (
	"strings"

	"github.com/samber/lo"

	"github.com/arnold/devgrowth-api/internal/models"
)

// Match returns the candidates sharing at least one tag with logTags, in the
// order they were supplied. Empty logTags never match anything.
//
// This is ANY-match on purpose: log queries filter with AND semantics, linking
// only needs one shared tag.
func Match[T any](logTags []string, candidates []T, tagsOf func(T) []string) []T {
	if len(logTags) == 0 || len(candidates) == 0 {
		return []T{}
	}
	return lo.Filter(candidates, func(c T, _ int) bool {
		return lo.Some(logTags, tagsOf(c))
	})
}

// MatchGoals is Match over weekly goals.
func MatchGoals(logTags []string, goals []models.WeeklyGoal) []models.WeeklyGoal {
	return Match(logTags, goals, func(g models.WeeklyGoal) []string { return g.Tags })
}

// GoalIDs lists the ids of goals in order.
func GoalIDs(goals []models.WeeklyGoal) []string {
	return lo.Map(goals, func(g models.WeeklyGoal, _ int) string { return g.ID })
}

// SharedTags returns the tags of goalTags that also appear in logTags, in
// goalTags order.
func SharedTags(logTags, goalTags []string) []string {
	return lo.Filter(goalTags, func(t string, _ int) bool { return lo.Contains(logTags, t) })
}

// NormalizeTags trims every tag, drops empty ones and removes duplicates,
// keeping first occurrences. The result is never nil.
func NormalizeTags(tags []string) []string {
	return lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
}

// SplitTags parses a comma-separated tag list such as "react,,css".
func SplitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}
