package match

import (
	"time"

	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
	"gorm.io/gorm"
)

// Match is the persisted header of a two-innings match. Status mirrors the progression
// state of the in-memory scoring engine and is rewritten on every transition.
type Match struct {
	gorm.Model
	Title      string    `json:"title"`
	HomeTeamID uint      `json:"home_team_id" gorm:"index;not null"`
	HomeTeam   team.Team `json:"home_team" gorm:"foreignKey:HomeTeamID"`
	AwayTeamID uint      `json:"away_team_id" gorm:"index;not null"`
	AwayTeam   team.Team `json:"away_team" gorm:"foreignKey:AwayTeamID"`
	Venue      string    `json:"venue,omitempty"`

	OversPerInnings int                `json:"overs_per_innings" gorm:"not null"`
	MaxWickets      int                `json:"max_wickets" gorm:"not null;default:10"`
	Status          scoring.MatchState `json:"status" gorm:"type:varchar(32);index;default:'awaiting_toss'"`
	ScheduledAt     *time.Time         `json:"scheduled_at,omitempty"`
	CreatedByID     uint               `json:"created_by_id" gorm:"index"`

	TossWinnerTeamID *uint  `json:"toss_winner_team_id,omitempty"`
	TossDecision     string `json:"toss_decision,omitempty"`
	Target           *int   `json:"target,omitempty"`

	// Result, set once the match is completed
	WinnerTeamID  *uint  `json:"winner_team_id,omitempty"`
	IsTie         bool   `json:"is_tie" gorm:"default:false"`
	ResultMargin  int    `json:"result_margin,omitempty"`
	MarginType    string `json:"margin_type,omitempty"`
	ResultSummary string `json:"result_summary,omitempty"`

	Innings []Inning      `json:"innings,omitempty" gorm:"foreignKey:MatchID"`
	Players []MatchPlayer `json:"-" gorm:"foreignKey:MatchID"`
}

// MatchPlayer snapshots a squad member at match creation. Later squad changes do not
// affect a match already scheduled.
type MatchPlayer struct {
	gorm.Model
	MatchID  uint `json:"match_id" gorm:"not null;uniqueIndex:idx_match_player"`
	TeamID   uint `json:"team_id" gorm:"index;not null"`
	PlayerID uint `json:"player_id" gorm:"not null;uniqueIndex:idx_match_player"`
}

// Inning represents one team's batting turn. The score columns are a cache of the ball
// log, rewritten in the same transaction as each delivery.
type Inning struct {
	gorm.Model
	MatchID          uint                  `json:"match_id" gorm:"not null;uniqueIndex:idx_match_innings"`
	InningsNumber    int                   `json:"innings_number" gorm:"not null;uniqueIndex:idx_match_innings"`
	BattingTeamID    uint                  `json:"batting_team_id" gorm:"index;not null"`
	BowlingTeamID    uint                  `json:"bowling_team_id" gorm:"index;not null"`
	Status           scoring.InningsStatus `json:"status" gorm:"type:varchar(16);default:'not_started'"`
	Declared         bool                  `json:"declared" gorm:"default:false"`
	CompletionReason string                `json:"completion_reason,omitempty"`
	Target           *int                  `json:"target,omitempty"`

	Runs       int     `json:"runs" gorm:"default:0"`
	Wickets    int     `json:"wickets" gorm:"default:0"`
	LegalBalls int     `json:"legal_balls" gorm:"default:0"`
	Overs      string  `json:"overs" gorm:"default:'0.0'"`
	RunRate    float64 `json:"run_rate" gorm:"default:0"`
	Extras     int     `json:"extras" gorm:"default:0"`
}

// BallDelivery is one persisted BallEvent. Sequence is match-wide and replaying the
// deliveries in sequence order rebuilds the match exactly.
type BallDelivery struct {
	gorm.Model
	MatchID    uint  `json:"match_id" gorm:"index;not null"`
	InningID   uint  `json:"inning_id" gorm:"not null;uniqueIndex:idx_inning_sequence"`
	Sequence   int64 `json:"sequence" gorm:"not null;uniqueIndex:idx_inning_sequence"`
	OverNumber int   `json:"over_number" gorm:"not null"` // 0-indexed
	BallInOver int   `json:"ball_in_over" gorm:"not null"`

	StrikerID    uint `json:"striker_id" gorm:"index;not null"`
	NonStrikerID uint `json:"non_striker_id" gorm:"not null"`
	BowlerID     uint `json:"bowler_id" gorm:"index;not null"`

	RunsOffBat  int                `json:"runs_off_bat" gorm:"default:0"`
	IsWicket    bool               `json:"is_wicket" gorm:"default:false"`
	WicketKind  scoring.WicketKind `json:"wicket_kind" gorm:"type:varchar(16);default:'none'"`
	PlayerOutID *uint              `json:"player_out_id,omitempty"`
	FielderID   *uint              `json:"fielder_id,omitempty"`
	ExtraType   scoring.ExtraType  `json:"extra_type" gorm:"type:varchar(16);default:'none'"`
	ExtraRuns   int                `json:"extra_runs" gorm:"default:0"`
	Commentary  string             `json:"commentary,omitempty" gorm:"type:text"`
}

// PlayerMatchStat caches the per-player rows of an innings. The ball log stays the
// source of truth; the rows are replaced whenever a ball is recorded.
type PlayerMatchStat struct {
	gorm.Model
	MatchID   uint             `json:"match_id" gorm:"index;not null"`
	InningID  uint             `json:"inning_id" gorm:"not null;uniqueIndex:idx_inning_player_kind"`
	PlayerID  uint             `json:"player_id" gorm:"not null;uniqueIndex:idx_inning_player_kind"`
	Kind      scoring.StatKind `json:"kind" gorm:"type:varchar(8);not null;uniqueIndex:idx_inning_player_kind"`

	RunsScored int     `json:"runs_scored"`
	BallsFaced int     `json:"balls_faced"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	HowOut     string  `json:"how_out,omitempty"`

	OversBowled  string  `json:"overs_bowled,omitempty"`
	MaidenOvers  int     `json:"maiden_overs"`
	RunsConceded int     `json:"runs_conceded"`
	WicketsTaken int     `json:"wickets_taken"`
	EconomyRate  float64 `json:"economy_rate"`
	Wides        int     `json:"wides"`
	NoBalls      int     `json:"no_balls"`
}

// Rules returns the scoring rules the match was created with.
func (m *Match) Rules() scoring.Rules {
	return scoring.Rules{OversPerInnings: m.OversPerInnings, MaxWickets: m.MaxWickets}
}

// Sides rebuilds the two scoring teams from the squad snapshot.
func (m *Match) Sides() (home, away scoring.Team) {
	home = scoring.Team{ID: m.HomeTeamID, Name: m.HomeTeam.Name, Players: scoring.Squad{}}
	away = scoring.Team{ID: m.AwayTeamID, Name: m.AwayTeam.Name, Players: scoring.Squad{}}
	for _, p := range m.Players {
		switch p.TeamID {
		case m.HomeTeamID:
			home.Players[p.PlayerID] = struct{}{}
		case m.AwayTeamID:
			away.Players[p.PlayerID] = struct{}{}
		}
	}
	return home, away
}

// ToEvent converts the row back into the engine's event. Sequence is kept so callers can
// check a replay assigned the same one.
func (d *BallDelivery) ToEvent() scoring.BallEvent {
	return scoring.BallEvent{
		Sequence:          d.Sequence,
		InningsID:         d.InningID,
		Over:              d.OverNumber,
		BallInOver:        d.BallInOver,
		BatsmanID:         d.StrikerID,
		NonStrikerID:      d.NonStrikerID,
		BowlerID:          d.BowlerID,
		RunsOffBat:        d.RunsOffBat,
		IsWicket:          d.IsWicket,
		WicketKind:        d.WicketKind,
		DismissedPlayerID: d.PlayerOutID,
		FielderID:         d.FielderID,
		ExtraType:         d.ExtraType,
		ExtraRuns:         d.ExtraRuns,
		Commentary:        d.Commentary,
	}
}

func deliveryFromEvent(matchID uint, e scoring.BallEvent) BallDelivery {
	return BallDelivery{
		MatchID:      matchID,
		InningID:     e.InningsID,
		Sequence:     e.Sequence,
		OverNumber:   e.Over,
		BallInOver:   e.BallInOver,
		StrikerID:    e.BatsmanID,
		NonStrikerID: e.NonStrikerID,
		BowlerID:     e.BowlerID,
		RunsOffBat:   e.RunsOffBat,
		IsWicket:     e.IsWicket,
		WicketKind:   e.WicketKind,
		PlayerOutID:  e.DismissedPlayerID,
		FielderID:    e.FielderID,
		ExtraType:    e.ExtraType,
		ExtraRuns:    e.ExtraRuns,
		Commentary:   e.Commentary,
	}
}

func (in *Inning) applySummary(s scoring.Summary) {
	in.Runs = s.Runs
	in.Wickets = s.Wickets
	in.LegalBalls = s.LegalBalls
	in.Overs = s.Overs
	in.RunRate = s.RunRate
	in.Extras = s.Extras.Total
}

func statRows(matchID uint, rows []scoring.PlayerMatchStat) []PlayerMatchStat {
	out := make([]PlayerMatchStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, PlayerMatchStat{
			MatchID:      matchID,
			InningID:     r.InningsID,
			PlayerID:     r.PlayerID,
			Kind:         r.Kind,
			RunsScored:   r.RunsScored,
			BallsFaced:   r.BallsFaced,
			Fours:        r.Fours,
			Sixes:        r.Sixes,
			StrikeRate:   r.StrikeRate,
			HowOut:       string(r.HowOut),
			OversBowled:  r.OversBowled,
			MaidenOvers:  r.MaidenOvers,
			RunsConceded: r.RunsConceded,
			WicketsTaken: r.WicketsTaken,
			EconomyRate:  r.EconomyRate,
			Wides:        r.Wides,
			NoBalls:      r.NoBalls,
		})
	}
	return out
}
