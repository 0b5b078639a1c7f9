package scoring

import "iter"

// BattingStat is a batting line with its derived rates.
type BattingStat struct {
	BattingLine
	StrikeRate         float64 `json:"strike_rate"`
	BoundaryPercentage float64 `json:"boundary_percentage"`
	DotBallPercentage  float64 `json:"dot_ball_percentage"`
}

// BowlingStat is a bowling line with its derived rates.
type BowlingStat struct {
	BowlingLine
	OversBowled       string  `json:"overs_bowled"`
	EconomyRate       float64 `json:"economy_rate"`
	DotBallPercentage float64 `json:"dot_ball_percentage"`
}

// Statistics is everything the scorecard views read for one innings.
type Statistics struct {
	InningsID     uint           `json:"innings_id"`
	Summary       Summary        `json:"summary"`
	BattingStats  []BattingStat  `json:"batting_stats"`
	BowlingStats  []BowlingStat  `json:"bowling_stats"`
	FallOfWickets []FallOfWicket `json:"fall_of_wickets"`
	Partnerships  []Partnership  `json:"partnerships"`
}

// BuildStatistics runs both aggregators over the same log.
func BuildStatistics(inningsID uint, events iter.Seq[BallEvent], batting, bowling Squad) (Statistics, error) {
	players, err := AggregatePlayers(events, batting, bowling)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		InningsID:     inningsID,
		Summary:       Summarize(events),
		BattingStats:  make([]BattingStat, 0, len(players.Batting)),
		BowlingStats:  make([]BowlingStat, 0, len(players.Bowling)),
		FallOfWickets: FallOfWickets(events),
		Partnerships:  Partnerships(events),
	}
	for _, b := range players.Batting {
		stats.BattingStats = append(stats.BattingStats, BattingStat{
			BattingLine:        b,
			StrikeRate:         b.StrikeRate(),
			BoundaryPercentage: b.BoundaryPercentage(),
			DotBallPercentage:  b.DotBallPercentage(),
		})
	}
	for _, b := range players.Bowling {
		stats.BowlingStats = append(stats.BowlingStats, BowlingStat{
			BowlingLine:       b,
			OversBowled:       b.Overs(),
			EconomyRate:       b.EconomyRate(),
			DotBallPercentage: b.DotBallPercentage(),
		})
	}
	return stats, nil
}
