package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBallEvent_Validate(t *testing.T) {
	base := BallEvent{InningsID: 1, Over: 0, BallInOver: 1, BatsmanID: 1, NonStrikerID: 2, BowlerID: 101}

	tests := []struct {
		name    string
		mutate  func(e *BallEvent)
		wantErr bool
	}{
		{"plain dot", func(e *BallEvent) {}, false},
		{"negative over", func(e *BallEvent) { e.Over = -1 }, true},
		{"ball zero", func(e *BallEvent) { e.BallInOver = 0 }, true},
		{"ball seven", func(e *BallEvent) { e.BallInOver = 7 }, true},
		{"negative runs", func(e *BallEvent) { e.RunsOffBat = -1 }, true},
		{"negative extras", func(e *BallEvent) { e.ExtraType = ExtraBye; e.ExtraRuns = -2 }, true},
		{"same batsmen", func(e *BallEvent) { e.NonStrikerID = 1 }, true},
		{"missing bowler", func(e *BallEvent) { e.BowlerID = 0 }, true},
		{"extras without type", func(e *BallEvent) { e.ExtraRuns = 1 }, true},
		{"free wide", func(e *BallEvent) { e.ExtraType = ExtraWide }, true},
		{"wide", func(e *BallEvent) { e.ExtraType = ExtraWide; e.ExtraRuns = 1 }, false},
		{"runs off bat on a wide", func(e *BallEvent) { e.ExtraType = ExtraWide; e.ExtraRuns = 1; e.RunsOffBat = 2 }, true},
		{"no-ball hit for six", func(e *BallEvent) { e.ExtraType = ExtraNoBall; e.ExtraRuns = 1; e.RunsOffBat = 6 }, false},
		{"byes", func(e *BallEvent) { e.ExtraType = ExtraBye; e.ExtraRuns = 4 }, false},
		{"bat runs on leg byes", func(e *BallEvent) { e.ExtraType = ExtraLegBye; e.ExtraRuns = 1; e.RunsOffBat = 1 }, true},
		{"unknown extra", func(e *BallEvent) { e.ExtraType = "penalty" }, true},
		{"unknown wicket", func(e *BallEvent) { e.IsWicket = true; e.WicketKind = "mankad" }, true},
		{"wicket without kind", func(e *BallEvent) { e.IsWicket = true }, true},
		{"kind without wicket", func(e *BallEvent) { e.WicketKind = WicketBowled }, true},
		{"bowled", func(e *BallEvent) { e.IsWicket = true; e.WicketKind = WicketBowled }, false},
		{"bowled off a wide", func(e *BallEvent) {
			e.ExtraType, e.ExtraRuns, e.IsWicket, e.WicketKind = ExtraWide, 1, true, WicketBowled
		}, true},
		{"stumped off a wide", func(e *BallEvent) {
			e.ExtraType, e.ExtraRuns, e.IsWicket, e.WicketKind = ExtraWide, 1, true, WicketStumped
		}, false},
		{"caught off a no-ball", func(e *BallEvent) {
			e.ExtraType, e.ExtraRuns, e.IsWicket, e.WicketKind = ExtraNoBall, 1, true, WicketCaught
		}, true},
		{"run out off a no-ball", func(e *BallEvent) {
			e.ExtraType, e.ExtraRuns, e.IsWicket, e.WicketKind = ExtraNoBall, 1, true, WicketRunOut
		}, false},
		{"non-striker run out", func(e *BallEvent) {
			e.IsWicket, e.WicketKind, e.DismissedPlayerID = true, WicketRunOut, uintPtr(2)
		}, false},
		{"non-striker lbw", func(e *BallEvent) {
			e.IsWicket, e.WicketKind, e.DismissedPlayerID = true, WicketLBW, uintPtr(2)
		}, true},
		{"dismissed player not at the crease", func(e *BallEvent) {
			e.IsWicket, e.WicketKind, e.DismissedPlayerID = true, WicketRunOut, uintPtr(9)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, KindValidation, KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBallEvent_Runs(t *testing.T) {
	noBall := BallEvent{RunsOffBat: 4, ExtraType: ExtraNoBall, ExtraRuns: 1}
	assert.Equal(t, 5, noBall.TotalRuns())
	assert.Equal(t, 5, noBall.RunsConceded())
	assert.False(t, noBall.IsLegal())
	assert.True(t, noBall.FacedByBatsman())

	legBye := BallEvent{ExtraType: ExtraLegBye, ExtraRuns: 2}
	assert.Equal(t, 2, legBye.TotalRuns())
	assert.Equal(t, 0, legBye.RunsConceded())
	assert.True(t, legBye.IsLegal())

	w := BallEvent{ExtraType: ExtraWide, ExtraRuns: 5}
	assert.Equal(t, 5, w.RunsConceded())
	assert.False(t, w.FacedByBatsman())
}

func TestBallEvent_NormalizeDefaultsDismissedToStriker(t *testing.T) {
	e := BallEvent{BatsmanID: 4, NonStrikerID: 5, IsWicket: true, WicketKind: WicketCaught}.Normalize()
	out, ok := e.Dismissed()
	assert.True(t, ok)
	assert.Equal(t, uint(4), out)
	assert.Equal(t, ExtraNone, e.ExtraType)
}

func TestWicketKind_CreditedToBowler(t *testing.T) {
	assert.True(t, WicketBowled.CreditedToBowler())
	assert.True(t, WicketStumped.CreditedToBowler())
	assert.False(t, WicketRunOut.CreditedToBowler())
	assert.False(t, WicketOther.CreditedToBowler())
	assert.False(t, WicketNone.CreditedToBowler())
}
