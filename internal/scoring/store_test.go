package scoring

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBall(inningsID uint, over, ball int) BallEvent {
	return BallEvent{InningsID: inningsID, Over: over, BallInOver: ball, BatsmanID: 1, NonStrikerID: 2, BowlerID: 101}
}

func TestStore_AppendTransitionsAndSequences(t *testing.T) {
	s := NewStore()
	s.Open(1)

	status, _, ok := s.Status(1)
	require.True(t, ok)
	assert.Equal(t, InningsNotStarted, status)

	first, err := s.Append(storeBall(1, 0, 1))
	require.NoError(t, err)
	second, err := s.Append(storeBall(1, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
	assert.Equal(t, int64(3), s.NextSequence())

	status, _, _ = s.Status(1)
	assert.Equal(t, InningsInProgress, status)
	assert.Equal(t, 2, s.Len(1))
}

func TestStore_RejectsUnknownAndCompletedInnings(t *testing.T) {
	s := NewStore()

	_, err := s.Append(storeBall(9, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidState)

	s.Open(1)
	_, err = s.Append(storeBall(1, 0, 1))
	require.NoError(t, err)
	require.NoError(t, s.Complete(1, true))

	_, err = s.Append(storeBall(1, 0, 2))
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, s.Complete(1, false), ErrInvalidState)

	status, declared, _ := s.Status(1)
	assert.Equal(t, InningsCompleted, status)
	assert.True(t, declared)
}

func TestStore_RejectsInvalidEvents(t *testing.T) {
	s := NewStore()
	s.Open(1)
	bad := storeBall(1, 0, 1)
	bad.RunsOffBat = -4

	_, err := s.Append(bad)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, s.Len(1))
}

func TestStore_OrdersByPositionThenSequence(t *testing.T) {
	s := NewStore()
	s.Open(1)

	w := storeBall(1, 0, 2)
	w.ExtraType, w.ExtraRuns = ExtraWide, 1
	for _, e := range []BallEvent{storeBall(1, 0, 1), storeBall(1, 0, 3), w, storeBall(1, 0, 2)} {
		_, err := s.Append(e)
		require.NoError(t, err)
	}

	var got [][2]int
	for e := range s.Events(1) {
		got = append(got, [2]int{e.BallInOver, int(e.Sequence)})
	}
	assert.Equal(t, [][2]int{{1, 1}, {2, 3}, {2, 4}, {3, 2}}, got)
}

func TestStore_EventsIsRestartableSnapshot(t *testing.T) {
	s := NewStore()
	s.Open(1)
	for i := 1; i <= 3; i++ {
		_, err := s.Append(storeBall(1, 0, i))
		require.NoError(t, err)
	}

	events := s.Events(1)
	first := slices.Collect(events)

	_, err := s.Append(storeBall(1, 0, 4))
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, first, slices.Collect(events), "snapshot must not see later appends")
	assert.Len(t, slices.Collect(s.Events(1)), 4)
	assert.Empty(t, slices.Collect(s.Events(42)))
}

func TestStore_Last(t *testing.T) {
	s := NewStore()
	s.Open(1)
	for i := 1; i <= 5; i++ {
		_, err := s.Append(storeBall(1, 0, i))
		require.NoError(t, err)
	}

	last := s.Last(1, 2)
	require.Len(t, last, 2)
	assert.Equal(t, 4, last[0].BallInOver)
	assert.Equal(t, 5, last[1].BallInOver)
	assert.Len(t, s.Last(1, 50), 5)
	assert.Empty(t, s.Last(1, 0))
	assert.Empty(t, s.Last(3, 2))
}
