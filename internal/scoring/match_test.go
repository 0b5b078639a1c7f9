package scoring

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	home := Team{ID: homeID, Players: squad(0)}
	away := Team{ID: awayID, Players: squad(100)}

	_, err := NewMatch(1, Rules{OversPerInnings: 0}, home, away)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewMatch(1, DefaultRules(), home, home)
	assert.ErrorIs(t, err, ErrValidation)

	shared := Team{ID: awayID, Players: NewSquad(5, 101, 102)}
	_, err = NewMatch(1, DefaultRules(), home, shared)
	assert.ErrorIs(t, err, ErrValidation)

	m, err := NewMatch(1, Rules{OversPerInnings: 5, MaxWickets: 99}, home, away)
	require.NoError(t, err)
	assert.Equal(t, 10, m.Rules().MaxWickets)
	assert.Equal(t, StateAwaitingToss, m.State())
}

func TestMatch_RecordToss(t *testing.T) {
	m := newTestMatch(t, 20)

	_, err := m.Submit(BallEvent{Over: 0, BallInOver: 1, BatsmanID: 1, NonStrikerID: 2, BowlerID: 110}, nil)
	assert.ErrorIs(t, err, ErrInvalidState, "no ball before the toss")

	_, err = m.RecordToss(Toss{WinnerTeamID: 3, Decision: TossBat}, 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = m.RecordToss(Toss{WinnerTeamID: homeID, Decision: "field"}, 10)
	assert.ErrorIs(t, err, ErrValidation)

	inn, err := m.RecordToss(Toss{WinnerTeamID: homeID, Decision: TossBowl}, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(10), inn.ID)
	assert.Equal(t, 1, inn.Number)
	assert.Equal(t, awayID, inn.BattingTeamID)
	assert.Equal(t, homeID, inn.BowlingTeamID)
	assert.Equal(t, InningsNotStarted, inn.Status)
	assert.Equal(t, StateInnings1InProgress, m.State())

	toss, ok := m.Toss()
	require.True(t, ok)
	assert.Equal(t, TossBowl, toss.Decision)

	_, err = m.RecordToss(Toss{WinnerTeamID: awayID, Decision: TossBat}, 11)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMatch_AllOut(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)

	for i := 1; i < 10; i++ {
		res := f.ball(bowled())
		assert.False(t, res.InningsCompleted)
	}
	res := f.ball(bowled())

	assert.True(t, res.InningsCompleted)
	assert.Equal(t, ReasonAllOut, res.CompletionReason)
	assert.Equal(t, StateInnings1Complete, res.State)
	assert.Equal(t, 10, res.Summary.Wickets)
	assert.Equal(t, InningsCompleted, res.Innings.Status)
	assert.Equal(t, StateInnings1Complete, m.State())

	_, err := f.try(runs(1))
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.Declare(10)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMatch_AllOutWithShortSquad(t *testing.T) {
	m, err := NewMatch(7, Rules{OversPerInnings: 20, MaxWickets: 10},
		Team{ID: homeID, Name: "Lions", Players: NewSquad(1, 2, 3, 4)},
		Team{ID: awayID, Name: "Tigers", Players: squad(100)},
	)
	require.NoError(t, err)
	f := startFirstInnings(t, m)

	f.ball(bowled())
	f.ball(bowled())
	res := f.ball(bowled())
	assert.Equal(t, ReasonAllOut, res.CompletionReason)
}

func TestMatch_OversComplete(t *testing.T) {
	m := newTestMatch(t, 1)
	f := startFirstInnings(t, m)

	f.dots(3)
	f.ball(wide(1))
	f.dots(2)
	assert.Equal(t, StateInnings1InProgress, m.State())

	res := f.ball(runs(2))
	assert.Equal(t, ReasonOversComplete, res.CompletionReason)
	assert.Equal(t, "1.0", res.Summary.Overs)
	assert.Equal(t, 3, res.Summary.Runs)
}

func TestMatch_ChaseReachesTarget(t *testing.T) {
	m := newTestMatch(t, 7)
	f := startFirstInnings(t, m)

	for i := 0; i < 41; i++ {
		f.ball(runs(6))
	}
	res := f.ball(runs(4))
	require.True(t, res.InningsCompleted)
	assert.Equal(t, 250, res.Summary.Runs)

	_, ok := m.Target()
	assert.False(t, ok, "target is frozen only when the chase starts")

	inn, err := m.StartSecondInnings(11)
	require.NoError(t, err)
	assert.Equal(t, awayID, inn.BattingTeamID)
	assert.Equal(t, 2, inn.Number)

	target, ok := m.Target()
	require.True(t, ok)
	assert.Equal(t, 251, target)

	chase := newFeeder(t, m, 11, 100, 0)
	for i := 0; i < 41; i++ {
		res = chase.ball(runs(6))
		assert.False(t, res.InningsCompleted)
	}
	res = chase.ball(runs(6))

	assert.True(t, res.InningsCompleted)
	assert.Equal(t, ReasonTargetReached, res.CompletionReason)
	assert.Equal(t, StateCompleted, res.State)
	require.NotNil(t, res.Result)
	assert.Equal(t, awayID, *res.Result.WinnerTeamID)
	assert.Equal(t, 10, res.Result.Margin)
	assert.Equal(t, "wickets", res.Result.MarginType)
	assert.Equal(t, "Tigers won by 10 wickets", res.Result.Summary)

	result, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, *res.Result, result)

	_, err = chase.try(runs(1))
	assert.ErrorIs(t, err, ErrInvalidState)
}

// playFirstInnings scores runs singles in a one over match.
func playFirstInnings(t *testing.T, m *Match, singles int) {
	t.Helper()
	f := startFirstInnings(t, m)
	for i := 0; i < 6; i++ {
		if i < singles {
			f.ball(runs(1))
		} else {
			f.ball(runs(0))
		}
	}
	require.Equal(t, StateInnings1Complete, m.State())
	_, err := m.StartSecondInnings(11)
	require.NoError(t, err)
}

func TestMatch_Results(t *testing.T) {
	tests := []struct {
		name      string
		firstRuns int
		chaseRuns int
		tie       bool
		winner    uint
		summary   string
	}{
		{"tie", 6, 6, true, 0, "Match tied"},
		{"defended by one run", 6, 5, false, homeID, "Lions won by 1 run"},
		{"defended by several", 6, 2, false, homeID, "Lions won by 4 runs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, 1)
			playFirstInnings(t, m, tt.firstRuns)

			chase := newFeeder(t, m, 11, 100, 0)
			var res SubmitResult
			for i := 0; i < 6; i++ {
				if i < tt.chaseRuns {
					res = chase.ball(runs(1))
				} else {
					res = chase.ball(runs(0))
				}
			}

			require.NotNil(t, res.Result)
			assert.Equal(t, ReasonOversComplete, res.CompletionReason)
			assert.Equal(t, tt.tie, res.Result.IsTie)
			assert.Equal(t, tt.summary, res.Result.Summary)
			if tt.tie {
				assert.Nil(t, res.Result.WinnerTeamID)
			} else {
				assert.Equal(t, tt.winner, *res.Result.WinnerTeamID)
				assert.Equal(t, "runs", res.Result.MarginType)
			}
		})
	}
}

func TestMatch_SecondInningsGating(t *testing.T) {
	m := newTestMatch(t, 1)

	_, err := m.StartSecondInnings(11)
	assert.ErrorIs(t, err, ErrInvalidState)

	f := startFirstInnings(t, m)
	f.dots(2)
	_, err = m.StartSecondInnings(11)
	assert.ErrorIs(t, err, ErrInvalidState, "first innings still in progress")

	f.dots(4)
	_, err = m.Submit(BallEvent{InningsID: 11, Over: 0, BallInOver: 1, BatsmanID: 101, NonStrikerID: 102, BowlerID: 10}, nil)
	assert.ErrorIs(t, err, ErrInvalidState, "second innings has not started")

	_, err = m.StartSecondInnings(10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = m.StartSecondInnings(11)
	require.NoError(t, err)
	_, err = m.StartSecondInnings(12)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.Submit(BallEvent{InningsID: 10, Over: 1, BallInOver: 1, BatsmanID: 1, NonStrikerID: 2, BowlerID: 110}, nil)
	assert.ErrorIs(t, err, ErrInvalidState, "first innings is closed")
}

func TestMatch_Declare(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)
	f.ball(runs(4))
	f.ball(runs(2))

	_, err := m.Declare(99)
	assert.ErrorIs(t, err, ErrInvalidState)

	res, err := m.Declare(10)
	require.NoError(t, err)
	assert.Equal(t, ReasonDeclared, res.CompletionReason)
	assert.True(t, res.Innings.Declared)
	assert.Equal(t, StateInnings1Complete, res.State)
	assert.Equal(t, 6, res.Summary.Runs)

	_, err = m.Declare(10)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.StartSecondInnings(11)
	require.NoError(t, err)
	target, _ := m.Target()
	assert.Equal(t, 7, target)

	res, err = m.Declare(11)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	require.NotNil(t, res.Result)
	assert.Equal(t, "Lions won by 6 runs", res.Result.Summary)
}

func TestMatch_CommitFailureLeavesNoTrace(t *testing.T) {
	m := newTestMatch(t, 1)
	f := startFirstInnings(t, m)
	f.dots(5)

	boom := errors.New("database is down")
	var seen SubmitResult
	_, err := m.Submit(f.event(runs(4)), func(res SubmitResult) error {
		seen = res
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.True(t, seen.InningsCompleted, "commit sees the outcome before it applies")
	assert.Equal(t, StateInnings1Complete, seen.State)
	assert.Equal(t, int64(6), seen.Event.Sequence)

	assert.Equal(t, StateInnings1InProgress, m.State())
	sum, err := m.ScoreSummary(10)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Runs)
	assert.Equal(t, 5, sum.LegalBalls)

	res := f.ball(runs(4))
	assert.True(t, res.InningsCompleted)
	assert.Equal(t, int64(6), res.Event.Sequence)
}

func TestMatch_RejectsOutOfSequenceBalls(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)
	f.dots(5)
	f.ball(bowled())

	tests := []struct {
		name   string
		event  BallEvent
		target error
	}{
		{"wrong position", BallEvent{Over: 1, BallInOver: 2, BatsmanID: 3, NonStrikerID: 2, BowlerID: 111}, ErrValidation},
		{"skipped over", BallEvent{Over: 2, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 111}, ErrValidation},
		{"dismissed batsman returns", BallEvent{Over: 1, BallInOver: 1, BatsmanID: 1, NonStrikerID: 2, BowlerID: 111}, ErrValidation},
		{"consecutive overs", BallEvent{Over: 1, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 110}, ErrValidation},
		{"bowler from batting side", BallEvent{Over: 1, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 4}, ErrUnknownPlayer},
		{"batsman from bowling side", BallEvent{Over: 1, BallInOver: 1, BatsmanID: 103, NonStrikerID: 2, BowlerID: 111}, ErrUnknownPlayer},
		{"fielder from batting side", BallEvent{
			Over: 1, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 111,
			IsWicket: true, WicketKind: WicketCaught, FielderID: uintPtr(5),
		}, ErrUnknownPlayer},
		{"unknown innings", BallEvent{InningsID: 99, Over: 1, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 111}, ErrInvalidState},
		{"invalid event", BallEvent{Over: 1, BallInOver: 1, BatsmanID: 3, NonStrikerID: 2, BowlerID: 111, RunsOffBat: -1}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Submit(tt.event, nil)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	res := f.ball(runs(1))
	assert.Equal(t, 1, res.Event.Over)
	assert.Equal(t, 1, res.Event.BallInOver)
	assert.Equal(t, uint(10), res.Event.InningsID)
}

func TestMatch_BowlerReplacedMidOverSitsOutNextOver(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)
	for i := 0; i < 5; i++ {
		f.ball(BallEvent{BowlerID: 110})
	}
	f.ball(BallEvent{BowlerID: 112})

	_, err := f.try(BallEvent{BowlerID: 110})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.try(BallEvent{BowlerID: 112})
	assert.ErrorIs(t, err, ErrValidation)

	res := f.ball(BallEvent{BowlerID: 111})
	assert.Equal(t, 1, res.Event.Over)
	assert.Equal(t, 1, res.Event.BallInOver)

	// the over after next is open to the first bowler again
	f.dots(5)
	res = f.ball(BallEvent{BowlerID: 110})
	assert.Equal(t, 2, res.Event.Over)
}

func TestMatch_ExtrasRepeatTheBall(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)

	first := f.ball(wide(1))
	second := f.ball(BallEvent{ExtraType: ExtraNoBall, ExtraRuns: 1})
	third := f.ball(runs(1))

	for _, res := range []SubmitResult{first, second, third} {
		assert.Equal(t, 0, res.Event.Over)
		assert.Equal(t, 1, res.Event.BallInOver)
	}
	assert.Equal(t, 3, third.Summary.Runs)
	assert.Equal(t, 1, third.Summary.LegalBalls)
}

func TestMatch_ScoreSummary(t *testing.T) {
	m := newTestMatch(t, 1)
	playFirstInnings(t, m, 6)

	chase := newFeeder(t, m, 11, 100, 0)
	chase.ball(runs(1))
	chase.ball(runs(1))

	sum, err := m.ScoreSummary(11)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Target)
	assert.Equal(t, 5, sum.RunsNeeded)
	assert.Equal(t, 4, sum.BallsRemaining)
	assert.Equal(t, 7.5, sum.RequiredRunRate)
	assert.Equal(t, "0.2", sum.Overs)
	assert.Equal(t, InningsInProgress, sum.Status)

	first, err := m.ScoreSummary(10)
	require.NoError(t, err)
	assert.Equal(t, 6, first.Runs)
	assert.Zero(t, first.Target)
	assert.Zero(t, first.BallsRemaining)
	assert.Equal(t, ReasonOversComplete, first.CompletionReason)

	_, err = m.ScoreSummary(99)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMatch_Queries(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)
	f.ball(runs(1))
	f.ball(runs(2))
	f.ball(runs(3))

	last, err := m.LastBalls(10, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, 2, last[0].RunsOffBat)
	assert.Equal(t, 3, last[1].RunsOffBat)

	_, err = m.LastBalls(10, -1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = m.LastBalls(99, 2)
	assert.ErrorIs(t, err, ErrInvalidState)

	stats, err := m.Statistics(10)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Summary.Runs)
	require.Len(t, stats.BattingStats, 2)
	assert.Equal(t, 6, stats.BattingStats[0].Runs)

	rows, err := m.PlayerRows(10)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = m.Statistics(99)
	assert.ErrorIs(t, err, ErrInvalidState)

	innings := m.Innings()
	require.Len(t, innings, 1)
	assert.Equal(t, InningsInProgress, innings[0].Status)
	cur, ok := m.CurrentInnings()
	require.True(t, ok)
	assert.Equal(t, uint(10), cur.ID)
}

func TestMatch_ReadsNeverSeePartialBalls(t *testing.T) {
	m := newTestMatch(t, 20)
	f := startFirstInnings(t, m)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				stats, err := m.Statistics(10)
				if !assert.NoError(t, err) {
					return
				}
				batted, bowled := 0, 0
				for _, b := range stats.BattingStats {
					batted += b.Runs
				}
				for _, b := range stats.BowlingStats {
					bowled += b.LegalBalls
				}
				assert.Equal(t, stats.Summary.Runs, batted+stats.Summary.Extras.Total)
				assert.Equal(t, stats.Summary.LegalBalls, bowled)
			}
		}()
	}

	for i := 0; i < 60; i++ {
		switch i % 4 {
		case 0:
			f.ball(wide(1))
		case 1:
			f.ball(runs(4))
		default:
			f.ball(runs(1))
		}
	}
	close(done)
	wg.Wait()

	sum, err := m.ScoreSummary(10)
	require.NoError(t, err)
	assert.Equal(t, 45, sum.LegalBalls)
	assert.Equal(t, 15+60+30, sum.Runs)
}
