package scoring

import "iter"

// Extras is the breakdown of runs not credited to a batsman.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
	Total   int `json:"total"`
}

// Summary is the team-level rollup of an innings.
type Summary struct {
	Runs       int     `json:"runs"`
	Wickets    int     `json:"wickets"`
	LegalBalls int     `json:"legal_balls"`
	Overs      string  `json:"overs"`
	RunRate    float64 `json:"run_rate"`
	Extras     Extras  `json:"extras"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	DotBalls   int     `json:"dot_balls"`
}

// Summarize reduces the ball log to team totals.
func Summarize(events iter.Seq[BallEvent]) Summary {
	var s Summary
	for e := range events {
		e = e.Normalize()
		s.Runs += e.TotalRuns()
		if e.IsWicket {
			s.Wickets++
		}
		if e.IsLegal() {
			s.LegalBalls++
			if e.TotalRuns() == 0 {
				s.DotBalls++
			}
		}
		switch e.RunsOffBat {
		case 4:
			s.Fours++
		case 6:
			s.Sixes++
		}
		switch e.ExtraType {
		case ExtraWide:
			s.Extras.Wides += e.ExtraRuns
		case ExtraNoBall:
			s.Extras.NoBalls += e.ExtraRuns
		case ExtraBye:
			s.Extras.Byes += e.ExtraRuns
		case ExtraLegBye:
			s.Extras.LegByes += e.ExtraRuns
		}
		s.Extras.Total += e.ExtraRuns
	}
	s.Overs = OversLabel(s.LegalBalls)
	s.RunRate = RunRate(s.Runs, s.LegalBalls)
	return s
}

// FallOfWicket is the team score at the moment a wicket fell.
type FallOfWicket struct {
	WicketNumber      int        `json:"wicket_number"`
	TeamScore         int        `json:"team_score"`
	Overs             string     `json:"overs"`
	DismissedPlayerID uint       `json:"dismissed_player_id"`
	WicketKind        WicketKind `json:"wicket_kind"`
	BowlerID          uint       `json:"bowler_id"`
	Sequence          int64      `json:"sequence"`
}

// FallOfWickets lists one snapshot per wicket, ordered by wicket number.
func FallOfWickets(events iter.Seq[BallEvent]) []FallOfWicket {
	fow := []FallOfWicket{}
	runs, legal := 0, 0
	for e := range events {
		e = e.Normalize()
		runs += e.TotalRuns()
		if e.IsLegal() {
			legal++
		}
		if out, ok := e.Dismissed(); ok {
			fow = append(fow, FallOfWicket{
				WicketNumber:      len(fow) + 1,
				TeamScore:         runs,
				Overs:             OversLabel(legal),
				DismissedPlayerID: out,
				WicketKind:        e.WicketKind,
				BowlerID:          e.BowlerID,
				Sequence:          e.Sequence,
			})
		}
	}
	return fow
}

// Partnership is the stand between two batsmen. WicketNumber is the wicket that ended
// it, or 0 for the pair still batting.
type Partnership struct {
	WicketNumber  int  `json:"wicket_number"`
	BatsmanAID    uint `json:"batsman_a_id"`
	BatsmanBID    uint `json:"batsman_b_id"`
	Runs          int  `json:"runs"`
	Balls         int  `json:"balls"`
	BatsmanARuns  int  `json:"batsman_a_runs"`
	BatsmanABalls int  `json:"batsman_a_balls"`
	BatsmanBRuns  int  `json:"batsman_b_runs"`
	BatsmanBBalls int  `json:"batsman_b_balls"`
	Extras        int  `json:"extras"`
}

func (p *Partnership) credit(e BallEvent) {
	faced := 0
	if e.FacedByBatsman() {
		faced = 1
	}
	switch e.BatsmanID {
	case p.BatsmanAID:
		p.BatsmanARuns += e.RunsOffBat
		p.BatsmanABalls += faced
	case p.BatsmanBID:
		p.BatsmanBRuns += e.RunsOffBat
		p.BatsmanBBalls += faced
	}
}

// Partnerships scans wicket boundaries. Completed stands come first in wicket order,
// followed by the open stand (wicket 0) once the first ball has been bowled. Straight after
// a wicket the open stand holds only the surviving batsman; the incoming batsman's slot is 0
// until the newcomer faces or backs up a ball. It is never cached: every call rescans the log.
func Partnerships(events iter.Seq[BallEvent]) []Partnership {
	out := []Partnership{}
	var cur *Partnership
	wickets := 0

	for e := range events {
		e = e.Normalize()
		if cur == nil {
			cur = &Partnership{BatsmanAID: e.BatsmanID, BatsmanBID: e.NonStrikerID}
		} else if !cur.has(e.BatsmanID) || !cur.has(e.NonStrikerID) {
			// A batsman changed without a recorded wicket (retired hurt); the new man
			// takes over the departing batsman's slot.
			cur.replace(e.BatsmanID, e.NonStrikerID)
		}

		cur.Runs += e.TotalRuns()
		cur.Extras += e.ExtraRuns
		if e.IsLegal() {
			cur.Balls++
		}
		cur.credit(e)

		if e.IsWicket {
			wickets++
			cur.WicketNumber = wickets
			out = append(out, *cur)
			cur = cur.survivor(e)
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// survivor opens the next stand with the batsman left at the crease after e.
func (p *Partnership) survivor(e BallEvent) *Partnership {
	out, _ := e.Dismissed()
	left := e.BatsmanID
	if out == e.BatsmanID {
		left = e.NonStrikerID
	}
	if p.BatsmanAID == left {
		return &Partnership{BatsmanAID: left}
	}
	return &Partnership{BatsmanBID: left}
}

func (p *Partnership) has(id uint) bool {
	return p.BatsmanAID == id || p.BatsmanBID == id
}

func (p *Partnership) replace(striker, nonStriker uint) {
	for _, id := range []uint{striker, nonStriker} {
		if p.has(id) {
			continue
		}
		if p.BatsmanAID != striker && p.BatsmanAID != nonStriker {
			p.BatsmanAID, p.BatsmanARuns, p.BatsmanABalls = id, 0, 0
		} else {
			p.BatsmanBID, p.BatsmanBRuns, p.BatsmanBBalls = id, 0, 0
		}
	}
}
