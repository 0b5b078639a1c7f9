package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	homeID uint = 1
	awayID uint = 2
)

// Home players are 1..11, away players 101..111.
func squad(base uint) Squad {
	ids := make([]uint, 0, 11)
	for i := uint(1); i <= 11; i++ {
		ids = append(ids, base+i)
	}
	return NewSquad(ids...)
}

func newTestMatch(t *testing.T, overs int) *Match {
	t.Helper()
	m, err := NewMatch(7, Rules{OversPerInnings: overs, MaxWickets: 10},
		Team{ID: homeID, Name: "Lions", Players: squad(0)},
		Team{ID: awayID, Name: "Tigers", Players: squad(100)},
	)
	require.NoError(t, err)
	return m
}

// feeder submits balls at the next legal position and keeps the batting pair current.
type feeder struct {
	t         *testing.T
	m         *Match
	innings   uint
	legal     int
	striker   uint
	non       uint
	nextIn    uint
	bowlers   [2]uint
	lastRes   SubmitResult
	lastError error
}

func newFeeder(t *testing.T, m *Match, inningsID uint, battingBase, bowlingBase uint) *feeder {
	return &feeder{
		t:       t,
		m:       m,
		innings: inningsID,
		striker: battingBase + 1,
		non:     battingBase + 2,
		nextIn:  battingBase + 3,
		bowlers: [2]uint{bowlingBase + 10, bowlingBase + 11},
	}
}

func (f *feeder) event(e BallEvent) BallEvent {
	e.InningsID = f.innings
	e.Over = f.legal / BallsPerOver
	e.BallInOver = f.legal%BallsPerOver + 1
	if e.BatsmanID == 0 {
		e.BatsmanID = f.striker
	}
	if e.NonStrikerID == 0 {
		e.NonStrikerID = f.non
	}
	if e.BowlerID == 0 {
		e.BowlerID = f.bowlers[e.Over%2]
	}
	return e
}

// try submits without failing the test.
func (f *feeder) try(e BallEvent) (SubmitResult, error) {
	e = f.event(e)
	res, err := f.m.Submit(e, nil)
	f.lastRes, f.lastError = res, err
	if err != nil {
		return res, err
	}
	if e.IsLegal() {
		f.legal++
	}
	if e.IsWicket {
		out, _ := e.Normalize().Dismissed()
		if out == f.striker {
			f.striker = f.nextIn
		} else {
			f.non = f.nextIn
		}
		f.nextIn++
	}
	return res, nil
}

func (f *feeder) ball(e BallEvent) SubmitResult {
	f.t.Helper()
	res, err := f.try(e)
	require.NoError(f.t, err)
	return res
}

func (f *feeder) dots(n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		f.ball(BallEvent{})
	}
}

func runs(n int) BallEvent {
	return BallEvent{RunsOffBat: n}
}

func wide(extra int) BallEvent {
	return BallEvent{ExtraType: ExtraWide, ExtraRuns: extra}
}

func bowled() BallEvent {
	return BallEvent{IsWicket: true, WicketKind: WicketBowled}
}

func startFirstInnings(t *testing.T, m *Match) *feeder {
	t.Helper()
	_, err := m.RecordToss(Toss{WinnerTeamID: homeID, Decision: TossBat}, 10)
	require.NoError(t, err)
	return newFeeder(t, m, 10, 0, 100)
}

func uintPtr(v uint) *uint {
	return &v
}
