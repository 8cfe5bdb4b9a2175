package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/devgrowth-api/internal/apperr"
	"github.com/arnold/devgrowth-api/internal/database/dbtest"
	"github.com/arnold/devgrowth-api/internal/models"
	"github.com/arnold/devgrowth-api/internal/repository"
)

var ctx = context.Background()

// flakyGateway wraps the real repository and fails selected operations.
type flakyGateway struct {
	*repository.DailyLogRepository
	failInsertLog   error
	failLinks       error
	failQuery       error
	linkCalls       int
	lastLinkGoalIDs []string
}

func (g *flakyGateway) InsertLog(ctx context.Context, ownerID uuid.UUID, title, content string, tags []string) (*models.DailyLog, error) {
	if g.failInsertLog != nil {
		return nil, g.failInsertLog
	}
	return g.DailyLogRepository.InsertLog(ctx, ownerID, title, content, tags)
}

func (g *flakyGateway) InsertAssociations(ctx context.Context, logID uuid.UUID, goalIDs []string) ([]models.DailyLogGoal, error) {
	g.linkCalls++
	g.lastLinkGoalIDs = goalIDs
	if g.failLinks != nil {
		return nil, &apperr.AssociationError{LogID: logID, GoalIDs: goalIDs, Err: g.failLinks}
	}
	return g.DailyLogRepository.InsertAssociations(ctx, logID, goalIDs)
}

func (g *flakyGateway) QueryLogs(ctx context.Context, ownerID uuid.UUID, q repository.LogQuery) (*repository.LogPage, error) {
	if g.failQuery != nil {
		return nil, g.failQuery
	}
	return g.DailyLogRepository.QueryLogs(ctx, ownerID, q)
}

type brokenCatalog struct{}

func (brokenCatalog) ListWeeklyGoals(context.Context) ([]models.WeeklyGoal, error) {
	return nil, apperr.Storage("list weekly goals", errors.New("catalog offline"))
}

type fixture struct {
	svc     *DailyLogService
	gw      *flakyGateway
	metrics *Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	gw := &flakyGateway{DailyLogRepository: repository.NewDailyLogRepository(db)}
	metrics := NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewDailyLogService(gw, repository.NewGoalRepository(db), Paging{DefaultLimit: 10, MaxLimit: 100}, metrics, logger)
	return &fixture{svc: svc, gw: gw, metrics: metrics}
}

func TestPagingNormalize(t *testing.T) {
	p := Paging{DefaultLimit: 10, MaxLimit: 100}
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 10, 1, 10},
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{4, 500, 4, 100},
		{2, 100, 2, 100},
	}
	for _, c := range cases {
		page, limit := p.Normalize(c.page, c.limit)
		assert.Equal(t, c.wantPage, page, "page for %+v", c)
		assert.Equal(t, c.wantLimit, limit, "limit for %+v", c)
	}
}

func TestCreateLinksRequestedGoals(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	res, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{
		Title: "A", Content: "B", Tags: []string{"react"}, LinkedGoalIDs: []string{"g1"},
	})
	require.NoError(t, err)

	require.Len(t, res.LinkedGoals, 1)
	assert.Equal(t, res.Log.ID, res.LinkedGoals[0].DailyLogID)
	assert.Equal(t, "g1", res.LinkedGoals[0].GoalID)
	assert.Equal(t, []string{"g1"}, res.Log.AutoLinkedGoals)
	assert.Nil(t, res.LinkErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LogsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AssociationsWritten))
}

func TestCreateSurvivesLinkFailure(t *testing.T) {
	f := newFixture(t)
	f.gw.failLinks = errors.New("association store down")
	owner := uuid.New()

	res, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{
		Title: "A", Content: "B", Tags: []string{"react"}, LinkedGoalIDs: []string{"g1"},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.DailyLogGoal{}, res.LinkedGoals)
	assert.Equal(t, []string{}, res.Log.AutoLinkedGoals)
	require.NotNil(t, res.LinkErr)
	assert.Equal(t, res.Log.ID, res.LinkErr.LogID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AssociationFailures))

	list, err := f.svc.List(ctx, owner, ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Logs, 1)
	assert.Equal(t, res.Log.ID, list.Logs[0].ID)
}

func TestCreateRejectsBlankTitleBeforeWriting(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{Title: "  ", Content: "B"})

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)

	_, err = f.svc.Create(ctx, owner, models.CreateDailyLogRequest{Title: "A", Content: ""})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "content", ve.Field)

	list, err := f.svc.List(ctx, owner, ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.Zero(t, f.gw.linkCalls)
}

func TestCreateRequiresOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(ctx, uuid.Nil, models.CreateDailyLogRequest{Title: "A", Content: "B"})

	var ae *apperr.AuthError
	assert.True(t, errors.As(err, &ae))
}

func TestCreatePrimaryWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.gw.failInsertLog = errors.New("disk full")

	_, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{
		Title: "A", Content: "B", LinkedGoalIDs: []string{"g1"},
	})

	var se *apperr.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "insert daily log", se.Op)
	assert.Zero(t, f.gw.linkCalls, "no link write after a failed log write")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StorageFailures.WithLabelValues("insert daily log")))
}

func TestCreateDerivesLinksFromCatalogWhenOmitted(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{
		Title: "Memoization", Content: "useMemo everywhere", Tags: []string{"performance", "css"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"wg1"}, res.Log.AutoLinkedGoals)
	assert.Equal(t, []string{"wg1"}, f.gw.lastLinkGoalIDs)
}

func TestCreateExplicitEmptyLinksWritesNone(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{
		Title: "Memoization", Content: "useMemo", Tags: []string{"react"}, LinkedGoalIDs: []string{},
	})
	require.NoError(t, err)

	assert.Empty(t, res.LinkedGoals)
	assert.Zero(t, f.gw.linkCalls)
}

func TestCreateWithoutTagsDoesNotLink(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{Title: "A", Content: "B"})
	require.NoError(t, err)

	assert.Empty(t, res.LinkedGoals)
	assert.Zero(t, f.gw.linkCalls)
}

func TestCreateIgnoresCatalogFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.goals = brokenCatalog{}

	res, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{
		Title: "A", Content: "B", Tags: []string{"react"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.LinkedGoals)
}

func TestCreateKeepsDuplicateGoalIDs(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(ctx, uuid.New(), models.CreateDailyLogRequest{
		Title: "A", Content: "B", LinkedGoalIDs: []string{"wg1", "wg1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wg1", "wg1"}, res.Log.AutoLinkedGoals)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{Title: "log", Content: "body", LinkedGoalIDs: []string{}})
		require.NoError(t, err)
	}

	cases := []struct {
		page, want int
	}{{1, 2}, {2, 2}, {3, 1}, {4, 0}}
	for _, c := range cases {
		res, err := f.svc.List(ctx, owner, ListQuery{Page: c.page, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res.Logs, c.want, "page %d", c.page)
		assert.EqualValues(t, 5, res.Total)
		assert.Equal(t, c.page, res.Page)
		assert.Equal(t, 2, res.Limit)
	}
}

func TestListClampsPaging(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.List(ctx, uuid.New(), ListQuery{Page: -2, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, []models.DailyLog{}, res.Logs)
}

func TestListPageBeyondLastOffsetIsEmpty(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{
			Title: "T", Content: "C", LinkedGoalIDs: []string{},
		})
		require.NoError(t, err)
	}

	for _, page := range []int{1000000000000000001, math.MaxInt} {
		res, err := f.svc.List(ctx, owner, ListQuery{Page: page, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, res.Logs, "page %d", page)
		assert.EqualValues(t, 5, res.Total)
		assert.Equal(t, page, res.Page)
	}
}

func TestListRoundTripTags(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	created, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{
		Title: "Styling", Content: "Grid layout", Tags: []string{"react", "css"},
	})
	require.NoError(t, err)

	res, err := f.svc.List(ctx, owner, ListQuery{Tags: []string{"react"}})
	require.NoError(t, err)
	require.Len(t, res.Logs, 1)
	assert.Equal(t, created.Log.ID, res.Logs[0].ID)

	res, err = f.svc.List(ctx, owner, ListQuery{Tags: []string{"react", "vue"}})
	require.NoError(t, err)
	assert.Empty(t, res.Logs)
}

func TestListStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.gw.failQuery = apperr.Storage("query daily logs", errors.New("connection reset"))

	_, err := f.svc.List(ctx, uuid.New(), ListQuery{})

	var se *apperr.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StorageFailures.WithLabelValues("query daily logs")))
}

func TestTags(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	_, err := f.svc.Create(ctx, owner, models.CreateDailyLogRequest{Title: "A", Content: "B", Tags: []string{"go", "sql"}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, owner, models.CreateDailyLogRequest{Title: "C", Content: "D", Tags: []string{"go"}})
	require.NoError(t, err)

	counts, err := f.svc.Tags(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Tag: "go", Count: 2}, {Tag: "sql", Count: 1}}, counts)
}

func TestPreviewLinks(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewGoalService(repository.NewGoalRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))

	previews, err := svc.PreviewLinks(ctx, []string{"performance", "react", "design"})
	require.NoError(t, err)
	require.Len(t, previews, 2)
	assert.Equal(t, "wg1", previews[0].Goal.ID)
	assert.Equal(t, []string{"react", "performance"}, previews[0].MatchedTags)
	assert.Equal(t, "wg2", previews[1].Goal.ID)
	assert.Equal(t, []string{"design"}, previews[1].MatchedTags)

	none, err := svc.PreviewLinks(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPreviewLinksCatalogFailure(t *testing.T) {
	svc := NewGoalService(brokenCatalog{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.PreviewLinks(ctx, []string{"react"})

	var se *apperr.StorageError
	assert.True(t, errors.As(err, &se))
}
