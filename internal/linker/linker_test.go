package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnold/devgrowth-api/internal/models"
)

func goal(id string, tags ...string) models.WeeklyGoal {
	return models.WeeklyGoal{ID: id, Title: id, Category: models.CategoryLearning, Tags: tags}
}

func TestMatchGoalsAnyTag(t *testing.T) {
	got := MatchGoals([]string{"react", "css"}, []models.WeeklyGoal{
		goal("g1", "vue"),
		goal("g2", "css", "node"),
	})

	assert.Equal(t, []string{"g2"}, GoalIDs(got))
}

func TestMatchGoalsKeepsCandidateOrder(t *testing.T) {
	goals := []models.WeeklyGoal{
		goal("g3", "api"),
		goal("g1", "react"),
		goal("g4", "design"),
		goal("g2", "react", "api"),
	}

	first := MatchGoals([]string{"react", "api"}, goals)
	second := MatchGoals([]string{"api", "react"}, goals)

	assert.Equal(t, []string{"g3", "g1", "g2"}, GoalIDs(first))
	assert.Equal(t, GoalIDs(first), GoalIDs(second))
}

func TestMatchGoalsEmptyInputs(t *testing.T) {
	goals := []models.WeeklyGoal{goal("g1", "react")}

	noTags := MatchGoals(nil, goals)
	assert.NotNil(t, noTags)
	assert.Empty(t, noTags)

	assert.Empty(t, MatchGoals([]string{}, goals))
	assert.Empty(t, MatchGoals([]string{"react"}, nil))
	assert.Empty(t, MatchGoals([]string{"react"}, []models.WeeklyGoal{goal("g9")}))
}

func TestMatchGeneric(t *testing.T) {
	type milestone struct {
		id   int
		tags []string
	}
	ms := []milestone{{1, []string{"go"}}, {2, []string{"rust"}}}

	got := Match([]string{"go"}, ms, func(m milestone) []string { return m.tags })

	assert.Equal(t, []milestone{{1, []string{"go"}}}, got)
}

func TestSharedTags(t *testing.T) {
	assert.Equal(t, []string{"react", "performance"},
		SharedTags([]string{"performance", "react", "css"}, []string{"react", "optimization", "performance"}))
	assert.Empty(t, SharedTags(nil, []string{"react"}))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"react", "css", "React"}, NormalizeTags([]string{" react", "css", "", "react ", "  ", "React"}))
	assert.NotNil(t, NormalizeTags(nil))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"react", "next.js"}, SplitTags("react,,next.js, react"))
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{}, SplitTags(" , "))
}
