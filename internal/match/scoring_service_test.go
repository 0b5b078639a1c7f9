package match

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/scorebook/internal/live"
	"github.com/DhavalSuthar-24/scorebook/internal/metrics"
	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringService_FullMatch(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	m := metrics.New()
	svc := f.service(WithPublisher(rec), WithMetrics(m))
	ctx := context.Background()

	match, inn1 := f.newMatch(t, svc)
	assert.Equal(t, "Lions vs Tigers", match.Title)
	assert.Equal(t, f.home.ID, inn1.BattingTeamID)
	assert.Equal(t, 1, inn1.Number)

	var res scoring.SubmitResult
	var err error
	for i := 0; i < 12; i++ {
		res, err = svc.SubmitBall(ctx, match.ID, dot(inn1.ID, i, f.homeIDs, f.awayIDs, 1))
		require.NoError(t, err, "ball %d", i)
	}
	assert.True(t, res.InningsCompleted)
	assert.Equal(t, scoring.ReasonOversComplete, res.CompletionReason)
	assert.Equal(t, scoring.StateInnings1Complete, res.State)

	stored, err := f.repo.GetInningByID(inn1.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Runs)
	assert.Equal(t, 12, stored.LegalBalls)
	assert.Equal(t, "2.0", stored.Overs)
	assert.Equal(t, scoring.InningsCompleted, stored.Status)
	assert.Equal(t, string(scoring.ReasonOversComplete), stored.CompletionReason)

	rows, err := svc.PlayerStats(inn1.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4, "two batters and two bowlers")
	for _, r := range rows {
		switch {
		case r.Kind == scoring.StatBatting && r.PlayerID == f.homeIDs[0]:
			assert.Equal(t, 12, r.RunsScored)
			assert.Equal(t, 12, r.BallsFaced)
		case r.Kind == scoring.StatBowling:
			assert.Equal(t, "1.0", r.OversBowled)
			assert.Equal(t, 6, r.RunsConceded)
		}
	}

	inn2, err := svc.StartSecondInnings(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, f.away.ID, inn2.BattingTeamID)

	row, err := svc.GetMatch(match.ID)
	require.NoError(t, err)
	require.NotNil(t, row.Target)
	assert.Equal(t, 13, *row.Target)
	assert.Equal(t, scoring.StateInnings2InProgress, row.Status)

	for i := 0; i < 6; i++ {
		_, err = svc.SubmitBall(ctx, match.ID, dot(inn2.ID, i, f.awayIDs, f.homeIDs, 2))
		require.NoError(t, err)
	}
	res, err = svc.SubmitBall(ctx, match.ID, dot(inn2.ID, 6, f.awayIDs, f.homeIDs, 1))
	require.NoError(t, err)
	require.NotNil(t, res.Result)
	assert.Equal(t, scoring.ReasonTargetReached, res.CompletionReason)
	assert.Equal(t, scoring.StateCompleted, res.State)

	result, err := svc.Result(match.ID)
	require.NoError(t, err)
	require.NotNil(t, result.WinnerTeamID)
	assert.Equal(t, f.away.ID, *result.WinnerTeamID)
	assert.Equal(t, "wickets", result.MarginType)
	assert.Equal(t, 2, result.Margin)

	row, err = svc.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, scoring.StateCompleted, row.Status)
	require.NotNil(t, row.WinnerTeamID)
	assert.Equal(t, f.away.ID, *row.WinnerTeamID)
	assert.Equal(t, "Tigers won by 2 wickets", row.ResultSummary)

	types := rec.types()
	require.NotEmpty(t, types)
	assert.Equal(t, live.UpdateToss, types[0])
	assert.Equal(t, live.UpdateMatchCompleted, types[len(types)-1])
	assert.Contains(t, types, live.UpdateInningsStarted)
	balls := 0
	for _, ty := range types {
		if ty == live.UpdateBall {
			balls++
		}
	}
	assert.Equal(t, 19, balls)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `scorebook_balls_recorded_total{innings="1"} 12`)
	assert.Contains(t, body, `scorebook_balls_recorded_total{innings="2"} 7`)
	assert.Contains(t, body, `scorebook_innings_completed_total{reason="target_reached"} 1`)
}

func TestScoringService_HydrationReplaysHistory(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()
	match, inn := f.newMatch(t, svc)

	submit := func(e scoring.BallEvent) scoring.SubmitResult {
		t.Helper()
		res, err := svc.SubmitBall(ctx, match.ID, e)
		require.NoError(t, err)
		return res
	}
	submit(dot(inn.ID, 0, f.homeIDs, f.awayIDs, 4))
	submit(dot(inn.ID, 1, f.homeIDs, f.awayIDs, 0))
	wicket := dot(inn.ID, 2, f.homeIDs, f.awayIDs, 0)
	wicket.IsWicket = true
	wicket.WicketKind = scoring.WicketBowled
	submit(wicket)

	newPair := []uint{f.homeIDs[2], f.homeIDs[1]}
	wide := dot(inn.ID, 3, newPair, f.awayIDs, 0)
	wide.ExtraType = scoring.ExtraWide
	wide.ExtraRuns = 1
	submit(wide)
	last := submit(dot(inn.ID, 3, newPair, f.awayIDs, 6))

	before, err := svc.Statistics(inn.ID)
	require.NoError(t, err)
	beforeSummary, err := svc.ScoreSummary(inn.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, beforeSummary.Runs)
	assert.Equal(t, 1, beforeSummary.Wickets)

	fresh := f.service()
	assert.Zero(t, fresh.Loaded())
	after, err := fresh.Statistics(inn.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	afterSummary, err := fresh.ScoreSummary(inn.ID)
	require.NoError(t, err)
	assert.Equal(t, beforeSummary, afterSummary)
	assert.Equal(t, 1, fresh.Loaded())

	next, err := fresh.SubmitBall(ctx, match.ID, dot(inn.ID, 4, newPair, f.awayIDs, 1))
	require.NoError(t, err)
	assert.Equal(t, last.Event.Sequence+1, next.Event.Sequence)

	balls, err := fresh.LastBalls(inn.ID, 2)
	require.NoError(t, err)
	require.Len(t, balls, 2)
	assert.Equal(t, 6, balls[0].RunsOffBat)
	assert.Equal(t, 1, balls[1].RunsOffBat)
}

func TestScoringService_DeclarationSurvivesReload(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()
	match, inn := f.newMatch(t, svc)

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitBall(ctx, match.ID, dot(inn.ID, i, f.homeIDs, f.awayIDs, 2))
		require.NoError(t, err)
	}
	res, err := svc.Declare(ctx, match.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, scoring.ReasonDeclared, res.CompletionReason)
	assert.True(t, res.Innings.Declared)

	stored, err := f.repo.GetInningByID(inn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Declared)
	assert.Equal(t, scoring.InningsCompleted, stored.Status)

	fresh := f.service()
	inn2, err := fresh.StartSecondInnings(ctx, match.ID)
	require.NoError(t, err)
	summary, err := fresh.ScoreSummary(inn2.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Target)
	assert.Equal(t, 12, summary.BallsRemaining)
}

func TestScoringService_PersistenceFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	flaky := newFlakyRepo(f.repo)
	svc := NewScoringService(flaky, f.teams)
	ctx := context.Background()
	match, inn := f.newMatch(t, svc)

	_, err := svc.SubmitBall(ctx, match.ID, dot(inn.ID, 0, f.homeIDs, f.awayIDs, 1))
	require.NoError(t, err)

	flaky.setFail(true)
	_, err = svc.SubmitBall(ctx, match.ID, dot(inn.ID, 1, f.homeIDs, f.awayIDs, 4))
	require.Error(t, err)
	assert.Empty(t, scoring.KindOf(err))
	assert.Zero(t, svc.Loaded())

	summary, err := svc.ScoreSummary(inn.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Runs)
	assert.Equal(t, 1, summary.LegalBalls)

	deliveries, err := f.repo.GetDeliveries(inn.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)

	flaky.setFail(false)
	res, err := svc.SubmitBall(ctx, match.ID, dot(inn.ID, 1, f.homeIDs, f.awayIDs, 4))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Summary.Runs)
}

func TestScoringService_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	pending, err := svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID})
	require.NoError(t, err)
	assert.Equal(t, 20, pending.OversPerInnings)
	_, err = svc.SubmitBall(ctx, pending.ID, dot(0, 0, f.homeIDs, f.awayIDs, 1))
	assert.Equal(t, scoring.KindInvalidState, scoring.KindOf(err))
	_, err = svc.Result(pending.ID)
	assert.Equal(t, scoring.KindInvalidState, scoring.KindOf(err))
	_, err = svc.RecordToss(ctx, pending.ID, scoring.Toss{WinnerTeamID: 999, Decision: scoring.TossBat})
	assert.Equal(t, scoring.KindValidation, scoring.KindOf(err))

	match, inn := f.newMatch(t, svc)

	stranger := dot(inn.ID, 0, f.homeIDs, f.awayIDs, 1)
	stranger.BowlerID = f.homeIDs[2]
	_, err = svc.SubmitBall(ctx, match.ID, stranger)
	assert.Equal(t, scoring.KindUnknownPlayer, scoring.KindOf(err))

	_, err = svc.SubmitBall(ctx, match.ID, dot(inn.ID, 3, f.homeIDs, f.awayIDs, 1))
	assert.Equal(t, scoring.KindValidation, scoring.KindOf(err))

	_, err = svc.RecordToss(ctx, match.ID, scoring.Toss{WinnerTeamID: f.home.ID, Decision: scoring.TossBat})
	assert.Equal(t, scoring.KindInvalidState, scoring.KindOf(err))

	_, err = svc.StartSecondInnings(ctx, match.ID)
	assert.Equal(t, scoring.KindInvalidState, scoring.KindOf(err))

	_, err = svc.SubmitBall(ctx, 12345, dot(inn.ID, 0, f.homeIDs, f.awayIDs, 1))
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = svc.Statistics(98765)
	assert.ErrorIs(t, err, ErrInningsNotFound)

	// rejected operations left nothing behind
	deliveries, err := f.repo.GetMatchDeliveries(match.ID)
	require.NoError(t, err)
	assert.Empty(t, deliveries)
	row, err := svc.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Len(t, row.Innings, 1)
}

func TestScoringService_CreateMatchValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	_, err := svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: f.home.ID})
	assert.Equal(t, scoring.KindValidation, scoring.KindOf(err))

	_, err = svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: 999})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	solo, _ := f.createTeam(t, "Solo", "Only")
	_, err = svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: solo.ID})
	assert.Equal(t, scoring.KindValidation, scoring.KindOf(err))

	m, err := svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID, OversPerInnings: 5, MaxWickets: 4})
	require.NoError(t, err)
	row, err := svc.GetMatch(m.ID)
	require.NoError(t, err)
	assert.Len(t, row.Players, 6)
	assert.Equal(t, scoring.Rules{OversPerInnings: 5, MaxWickets: 4}, row.Rules())
}

func TestScoringService_SquadSnapshot(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()
	match, inn := f.newMatch(t, svc)

	late := team.Player{TeamID: f.home.ID, Name: "Late", IsActive: true}
	require.NoError(t, f.teams.CreatePlayer(&late))

	e := dot(inn.ID, 0, []uint{late.ID, f.homeIDs[1]}, f.awayIDs, 1)
	_, err := svc.SubmitBall(ctx, match.ID, e)
	assert.Equal(t, scoring.KindUnknownPlayer, scoring.KindOf(err))
}

func TestScoringService_ConcurrentSubmissions(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()
	match, inn := f.newMatch(t, svc)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitBall(ctx, match.ID, dot(inn.ID, 0, f.homeIDs, f.awayIDs, 1))
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		assert.Equal(t, scoring.KindValidation, scoring.KindOf(err))
	}
	assert.Equal(t, 1, accepted)

	deliveries, err := f.repo.GetDeliveries(inn.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

func TestScoringService_PublishFailureDoesNotFailSubmission(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{err: errors.New("broker down")}
	svc := f.service(WithPublisher(rec))
	match, inn := f.newMatch(t, svc)

	res, err := svc.SubmitBall(context.Background(), match.ID, dot(inn.ID, 0, f.homeIDs, f.awayIDs, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Summary.Runs)
	assert.Equal(t, []live.UpdateType{live.UpdateToss, live.UpdateBall}, rec.types())
}
