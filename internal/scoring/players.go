package scoring

import "iter"

// Squad is the set of player ids allowed to appear for one side.
type Squad map[uint]struct{}

// NewSquad builds a squad from player ids.
func NewSquad(ids ...uint) Squad {
	s := make(Squad, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the player belongs to the squad.
func (s Squad) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// BattingLine is one batsman's innings, derived from the ball log.
type BattingLine struct {
	PlayerID  uint       `json:"player_id"`
	Position  int        `json:"position"` // order of first appearance at the crease
	Runs      int        `json:"runs_scored"`
	Balls     int        `json:"balls_faced"`
	Fours     int        `json:"fours"`
	Sixes     int        `json:"sixes"`
	Dots      int        `json:"dot_balls"`
	IsOut     bool       `json:"is_out"`
	HowOut    WicketKind `json:"how_out,omitempty"`
	BowlerID  *uint      `json:"dismissed_by_bowler_id,omitempty"`
	FielderID *uint      `json:"fielder_id,omitempty"`
}

func (b BattingLine) StrikeRate() float64 {
	return StrikeRate(b.Runs, b.Balls)
}

func (b BattingLine) BoundaryPercentage() float64 {
	return BoundaryPercentage(4*b.Fours+6*b.Sixes, b.Runs)
}

func (b BattingLine) DotBallPercentage() float64 {
	return DotBallPercentage(b.Dots, b.Balls)
}

// BowlingLine is one bowler's figures, derived from the ball log.
type BowlingLine struct {
	PlayerID     uint `json:"player_id"`
	Position     int  `json:"position"`
	LegalBalls   int  `json:"legal_balls"`
	Maidens      int  `json:"maiden_overs"`
	RunsConceded int  `json:"runs_conceded"`
	Wickets      int  `json:"wickets_taken"`
	Wides        int  `json:"wides"`
	NoBalls      int  `json:"no_balls"`
	Dots         int  `json:"dot_balls"`
}

func (b BowlingLine) Overs() string {
	return OversLabel(b.LegalBalls)
}

func (b BowlingLine) EconomyRate() float64 {
	return EconomyRate(b.RunsConceded, b.LegalBalls)
}

func (b BowlingLine) DotBallPercentage() float64 {
	return DotBallPercentage(b.Dots, b.LegalBalls)
}

// PlayerStats holds batting and bowling lines in order of appearance.
type PlayerStats struct {
	Batting []BattingLine
	Bowling []BowlingLine
}

// BattingFor looks up a batsman's line.
func (p PlayerStats) BattingFor(playerID uint) (BattingLine, bool) {
	for _, l := range p.Batting {
		if l.PlayerID == playerID {
			return l, true
		}
	}
	return BattingLine{}, false
}

// BowlingFor looks up a bowler's line.
func (p PlayerStats) BowlingFor(playerID uint) (BowlingLine, bool) {
	for _, l := range p.Bowling {
		if l.PlayerID == playerID {
			return l, true
		}
	}
	return BowlingLine{}, false
}

// overTally tracks the over in progress for maiden detection.
type overTally struct {
	over     int
	bowlerID uint
	legal    int
	conceded int
	extras   bool // any extra, byes and leg-byes included, voids the maiden
	mixed    bool // more than one bowler delivered in this over
}

// AggregatePlayers derives every batting and bowling line of an innings in one pass.
// A batsman outside the batting squad or a bowler outside the bowling squad fails the whole
// aggregation with UnknownPlayer.
func AggregatePlayers(events iter.Seq[BallEvent], batting, bowling Squad) (PlayerStats, error) {
	batIdx := make(map[uint]int)
	bowlIdx := make(map[uint]int)
	var stats PlayerStats

	batter := func(id uint) (*BattingLine, error) {
		if !batting.Has(id) {
			return nil, unknownPlayer("batsman %d is not in the batting squad", id)
		}
		i, ok := batIdx[id]
		if !ok {
			i = len(stats.Batting)
			batIdx[id] = i
			stats.Batting = append(stats.Batting, BattingLine{PlayerID: id, Position: i + 1})
		}
		return &stats.Batting[i], nil
	}
	bowler := func(id uint) (*BowlingLine, error) {
		if !bowling.Has(id) {
			return nil, unknownPlayer("bowler %d is not in the bowling squad", id)
		}
		i, ok := bowlIdx[id]
		if !ok {
			i = len(stats.Bowling)
			bowlIdx[id] = i
			stats.Bowling = append(stats.Bowling, BowlingLine{PlayerID: id, Position: i + 1})
		}
		return &stats.Bowling[i], nil
	}

	tally := overTally{over: -1}

	for e := range events {
		e = e.Normalize()

		if _, err := batter(e.BatsmanID); err != nil {
			return PlayerStats{}, err
		}
		// The non-striker gets a line on first appearance even before facing.
		if _, err := batter(e.NonStrikerID); err != nil {
			return PlayerStats{}, err
		}
		striker := &stats.Batting[batIdx[e.BatsmanID]]

		bw, err := bowler(e.BowlerID)
		if err != nil {
			return PlayerStats{}, err
		}

		striker.Runs += e.RunsOffBat
		if e.FacedByBatsman() {
			striker.Balls++
			if e.RunsOffBat == 0 {
				striker.Dots++
			}
		}
		switch e.RunsOffBat {
		case 4:
			striker.Fours++
		case 6:
			striker.Sixes++
		}

		conceded := e.RunsConceded()
		bw.RunsConceded += conceded
		switch e.ExtraType {
		case ExtraWide:
			bw.Wides++
		case ExtraNoBall:
			bw.NoBalls++
		}
		if e.IsLegal() {
			bw.LegalBalls++
			if conceded == 0 {
				bw.Dots++
			}
		}

		if out, ok := e.Dismissed(); ok {
			i, known := batIdx[out]
			if !known {
				return PlayerStats{}, unknownPlayer("dismissed player %d is not at the crease", out)
			}
			line := &stats.Batting[i]
			line.IsOut = true
			line.HowOut = e.WicketKind
			line.FielderID = e.FielderID
			if e.WicketKind.CreditedToBowler() {
				bw.Wickets++
				id := e.BowlerID
				line.BowlerID = &id
			}
		}

		if e.Over != tally.over {
			tally = overTally{over: e.Over, bowlerID: e.BowlerID}
		}
		if e.BowlerID != tally.bowlerID {
			tally.mixed = true
		}
		tally.conceded += conceded
		if e.ExtraRuns > 0 {
			tally.extras = true
		}
		if e.IsLegal() {
			tally.legal++
			if tally.legal == BallsPerOver && !tally.mixed && !tally.extras && tally.conceded == 0 {
				bw.Maidens++
			}
		}
	}

	return stats, nil
}

// StatKind separates the batting and bowling rows of a player.
type StatKind string

const (
	StatBatting StatKind = "batting"
	StatBowling StatKind = "bowling"
)

// PlayerMatchStat is one flattened row keyed by (PlayerID, InningsID, Kind).
type PlayerMatchStat struct {
	PlayerID  uint     `json:"player_id"`
	InningsID uint     `json:"innings_id"`
	Kind      StatKind `json:"kind"`

	RunsScored int        `json:"runs_scored,omitempty"`
	BallsFaced int        `json:"balls_faced,omitempty"`
	Fours      int        `json:"fours,omitempty"`
	Sixes      int        `json:"sixes,omitempty"`
	StrikeRate float64    `json:"strike_rate,omitempty"`
	HowOut     WicketKind `json:"how_out,omitempty"`

	OversBowled  string  `json:"overs_bowled,omitempty"`
	MaidenOvers  int     `json:"maiden_overs,omitempty"`
	RunsConceded int     `json:"runs_conceded,omitempty"`
	WicketsTaken int     `json:"wickets_taken,omitempty"`
	EconomyRate  float64 `json:"economy_rate,omitempty"`
	Wides        int     `json:"wides,omitempty"`
	NoBalls      int     `json:"no_balls,omitempty"`
}

// Rows flattens the lines into PlayerMatchStat rows, batting first.
func (p PlayerStats) Rows(inningsID uint) []PlayerMatchStat {
	rows := make([]PlayerMatchStat, 0, len(p.Batting)+len(p.Bowling))
	for _, b := range p.Batting {
		rows = append(rows, PlayerMatchStat{
			PlayerID:   b.PlayerID,
			InningsID:  inningsID,
			Kind:       StatBatting,
			RunsScored: b.Runs,
			BallsFaced: b.Balls,
			Fours:      b.Fours,
			Sixes:      b.Sixes,
			StrikeRate: b.StrikeRate(),
			HowOut:     b.HowOut,
		})
	}
	for _, b := range p.Bowling {
		rows = append(rows, PlayerMatchStat{
			PlayerID:     b.PlayerID,
			InningsID:    inningsID,
			Kind:         StatBowling,
			OversBowled:  b.Overs(),
			MaidenOvers:  b.Maidens,
			RunsConceded: b.RunsConceded,
			WicketsTaken: b.Wickets,
			EconomyRate:  b.EconomyRate(),
			Wides:        b.Wides,
			NoBalls:      b.NoBalls,
		})
	}
	return rows
}
