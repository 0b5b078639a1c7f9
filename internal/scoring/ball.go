package scoring

// ExtraType for runs not scored off the bat
type ExtraType string

const (
	ExtraNone   ExtraType = "none"
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// WicketKind describes how a batsman was dismissed.
type WicketKind string

const (
	WicketNone      WicketKind = "none"
	WicketBowled    WicketKind = "bowled"
	WicketCaught    WicketKind = "caught"
	WicketLBW       WicketKind = "lbw"
	WicketRunOut    WicketKind = "run_out"
	WicketStumped   WicketKind = "stumped"
	WicketHitWicket WicketKind = "hit_wicket"
	WicketOther     WicketKind = "other" // obstructing, retired out, timed out...
)

// Valid reports whether k is a known extra type. The empty string counts as none.
func (k ExtraType) Valid() bool {
	switch k {
	case "", ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// Valid reports whether k is a known dismissal kind. The empty string counts as none.
func (k WicketKind) Valid() bool {
	switch k {
	case "", WicketNone, WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped, WicketHitWicket, WicketOther:
		return true
	}
	return false
}

// CreditedToBowler reports whether a dismissal counts in the bowler's wickets column.
func (k WicketKind) CreditedToBowler() bool {
	switch k {
	case WicketBowled, WicketCaught, WicketLBW, WicketStumped, WicketHitWicket:
		return true
	}
	return false
}

// BallEvent is one delivery. The ball log of an innings is the single source of truth;
// every statistic is recomputed from it.
type BallEvent struct {
	Sequence          int64      `json:"sequence" yaml:"-"`
	InningsID         uint       `json:"innings_id" yaml:"innings_id"`
	Over              int        `json:"over" yaml:"over"`                 // 0-indexed
	BallInOver        int        `json:"ball_in_over" yaml:"ball_in_over"` // 1..6, repeats on wides/no-balls
	BatsmanID         uint       `json:"batsman_id" yaml:"batsman_id"`
	NonStrikerID      uint       `json:"non_striker_id" yaml:"non_striker_id"`
	BowlerID          uint       `json:"bowler_id" yaml:"bowler_id"`
	RunsOffBat        int        `json:"runs_off_bat" yaml:"runs_off_bat"`
	IsWicket          bool       `json:"is_wicket" yaml:"is_wicket"`
	WicketKind        WicketKind `json:"wicket_kind" yaml:"wicket_kind"`
	DismissedPlayerID *uint      `json:"dismissed_player_id,omitempty" yaml:"dismissed_player_id,omitempty"`
	FielderID         *uint      `json:"fielder_id,omitempty" yaml:"fielder_id,omitempty"`
	ExtraType         ExtraType  `json:"extra_type" yaml:"extra_type"`
	ExtraRuns         int        `json:"extra_runs" yaml:"extra_runs"`
	Commentary        string     `json:"commentary,omitempty" yaml:"commentary,omitempty"`
}

// Normalize fills in the defaults for empty enum values and the dismissed player.
func (e BallEvent) Normalize() BallEvent {
	if e.ExtraType == "" {
		e.ExtraType = ExtraNone
	}
	if e.WicketKind == "" {
		e.WicketKind = WicketNone
	}
	if e.IsWicket && e.DismissedPlayerID == nil {
		id := e.BatsmanID
		e.DismissedPlayerID = &id
	}
	return e
}

// IsLegal reports whether the delivery counts towards the six-ball over.
func (e BallEvent) IsLegal() bool {
	return e.ExtraType != ExtraWide && e.ExtraType != ExtraNoBall
}

// FacedByBatsman reports whether the striker's balls faced goes up. Only wides are excluded.
func (e BallEvent) FacedByBatsman() bool {
	return e.ExtraType != ExtraWide
}

// TotalRuns is everything the delivery adds to the team score.
func (e BallEvent) TotalRuns() int {
	return e.RunsOffBat + e.ExtraRuns
}

// RunsConceded is what the delivery costs the bowler. Byes and leg byes are team extras only.
func (e BallEvent) RunsConceded() int {
	switch e.ExtraType {
	case ExtraWide, ExtraNoBall:
		return e.RunsOffBat + e.ExtraRuns
	case ExtraBye, ExtraLegBye:
		return e.RunsOffBat
	}
	return e.RunsOffBat
}

// Dismissed returns the id of the player out on this ball, if any.
func (e BallEvent) Dismissed() (uint, bool) {
	if !e.IsWicket {
		return 0, false
	}
	if e.DismissedPlayerID != nil {
		return *e.DismissedPlayerID, true
	}
	return e.BatsmanID, true
}

// Validate checks the event in isolation. Squad membership and ball position are
// checked by the Match that receives it.
func (e BallEvent) Validate() error {
	e = e.Normalize()

	if e.Over < 0 {
		return validation("over must not be negative, got %d", e.Over)
	}
	if e.BallInOver < 1 || e.BallInOver > 6 {
		return validation("ball in over must be between 1 and 6, got %d", e.BallInOver)
	}
	if e.RunsOffBat < 0 {
		return validation("runs off bat must not be negative, got %d", e.RunsOffBat)
	}
	if e.ExtraRuns < 0 {
		return validation("extra runs must not be negative, got %d", e.ExtraRuns)
	}
	if e.BatsmanID == 0 || e.NonStrikerID == 0 || e.BowlerID == 0 {
		return validation("batsman, non-striker and bowler are required")
	}
	if e.BatsmanID == e.NonStrikerID {
		return validation("batsman and non-striker must be different players")
	}
	if !e.ExtraType.Valid() {
		return validation("unknown extra type %q", e.ExtraType)
	}
	if !e.WicketKind.Valid() {
		return validation("unknown wicket kind %q", e.WicketKind)
	}

	switch e.ExtraType {
	case ExtraNone:
		if e.ExtraRuns != 0 {
			return validation("extra runs given without an extra type")
		}
	case ExtraWide, ExtraNoBall:
		if e.ExtraRuns < 1 {
			return validation("a %s carries at least one extra run", e.ExtraType)
		}
	}
	if e.RunsOffBat > 0 && (e.ExtraType == ExtraWide || e.ExtraType == ExtraBye || e.ExtraType == ExtraLegBye) {
		return validation("runs off a %s are recorded as extra runs", e.ExtraType)
	}

	if !e.IsWicket {
		if e.WicketKind != WicketNone || e.DismissedPlayerID != nil {
			return validation("wicket details given for a ball with no wicket")
		}
		return nil
	}
	if e.WicketKind == WicketNone {
		return validation("wicket kind is required when a wicket falls")
	}
	switch e.ExtraType {
	case ExtraWide:
		switch e.WicketKind {
		case WicketStumped, WicketRunOut, WicketHitWicket, WicketOther:
		default:
			return validation("a batsman cannot be out %s off a wide", e.WicketKind)
		}
	case ExtraNoBall:
		if e.WicketKind != WicketRunOut && e.WicketKind != WicketOther {
			return validation("a batsman cannot be out %s off a no-ball", e.WicketKind)
		}
	}
	out := *e.DismissedPlayerID
	if out != e.BatsmanID && out != e.NonStrikerID {
		return validation("dismissed player %d is not at the crease", out)
	}
	if out == e.NonStrikerID && e.WicketKind != WicketRunOut && e.WicketKind != WicketOther {
		return validation("the non-striker can only be run out")
	}
	return nil
}
