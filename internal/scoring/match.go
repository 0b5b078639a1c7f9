package scoring

import (
	"fmt"
	"sync"
)

// MatchState is the progression of a two-innings limited overs match.
type MatchState string

const (
	StateAwaitingToss       MatchState = "awaiting_toss"
	StateInnings1InProgress MatchState = "innings1_in_progress"
	StateInnings1Complete   MatchState = "innings1_complete"
	StateInnings2InProgress MatchState = "innings2_in_progress"
	StateCompleted          MatchState = "completed"
)

// InProgress reports whether balls may be scored in this state.
func (s MatchState) InProgress() bool {
	return s == StateInnings1InProgress || s == StateInnings2InProgress
}

// TossDecision is what the toss winner chose to do.
type TossDecision string

const (
	TossBat  TossDecision = "bat"
	TossBowl TossDecision = "bowl"
)

// Toss records the toss result.
type Toss struct {
	WinnerTeamID uint         `json:"winner_team_id"`
	Decision     TossDecision `json:"decision"`
}

// CompletionReason explains why an innings ended.
type CompletionReason string

const (
	ReasonAllOut        CompletionReason = "all_out"
	ReasonOversComplete CompletionReason = "overs_complete"
	ReasonDeclared      CompletionReason = "declared"
	ReasonTargetReached CompletionReason = "target_reached"
)

// Team is one side of the match with its squad.
type Team struct {
	ID      uint
	Name    string
	Players Squad
}

// Rules are the match conditions.
type Rules struct {
	OversPerInnings int `json:"overs_per_innings"`
	MaxWickets      int `json:"max_wickets"`
}

// DefaultRules is a twenty over match.
func DefaultRules() Rules {
	return Rules{OversPerInnings: 20, MaxWickets: 10}
}

// Innings is a read-only view of one innings of the match.
type Innings struct {
	ID               uint             `json:"id"`
	Number           int              `json:"innings_number"`
	BattingTeamID    uint             `json:"batting_team_id"`
	BowlingTeamID    uint             `json:"bowling_team_id"`
	Status           InningsStatus    `json:"status"`
	Declared         bool             `json:"is_declared"`
	CompletionReason CompletionReason `json:"completion_reason,omitempty"`
}

// Result is the outcome of a completed match.
type Result struct {
	WinnerTeamID *uint  `json:"winner_team_id,omitempty"`
	IsTie        bool   `json:"is_tie"`
	Margin       int    `json:"margin"`
	MarginType   string `json:"margin_type,omitempty"` // "runs" or "wickets"
	Summary      string `json:"summary"`
}

// SubmitResult describes the effect of one accepted ball.
type SubmitResult struct {
	Event            BallEvent        `json:"event"`
	Innings          Innings          `json:"innings"`
	Summary          Summary          `json:"summary"`
	InningsCompleted bool             `json:"innings_completed"`
	State            MatchState       `json:"match_state"`
	Target           int              `json:"target,omitempty"`
	Result           *Result          `json:"result,omitempty"`
	CompletionReason CompletionReason `json:"completion_reason,omitempty"`
}

// CommitFunc is called with the outcome of a ball before it becomes visible to readers.
// An error aborts the submission and leaves the match untouched.
type CommitFunc func(SubmitResult) error

type inningsState struct {
	Innings
	batting Team
	bowling Team
}

// Match drives one match through its states and owns the ball log of both innings.
// A single writer is admitted at a time; readers see either all or none of a ball.
type Match struct {
	mu      sync.RWMutex
	id      uint
	rules   Rules
	teams   [2]Team
	state   MatchState
	toss    *Toss
	innings []*inningsState
	target  int
	result  *Result
	store   *Store
}

// NewMatch creates a match awaiting its toss.
func NewMatch(id uint, rules Rules, home, away Team) (*Match, error) {
	if rules.OversPerInnings <= 0 {
		return nil, validation("overs per innings must be positive, got %d", rules.OversPerInnings)
	}
	if rules.MaxWickets <= 0 || rules.MaxWickets > 10 {
		rules.MaxWickets = 10
	}
	if home.ID == 0 || away.ID == 0 || home.ID == away.ID {
		return nil, validation("a match needs two distinct teams")
	}
	for id := range home.Players {
		if away.Players.Has(id) {
			return nil, validation("player %d is in both squads", id)
		}
	}
	return &Match{
		id:    id,
		rules: rules,
		teams: [2]Team{home, away},
		state: StateAwaitingToss,
		store: NewStore(),
	}, nil
}

func (m *Match) ID() uint {
	return m.id
}

func (m *Match) Rules() Rules {
	return m.rules
}

// State returns the current progression state.
func (m *Match) State() MatchState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Target returns the frozen chase target once the second innings has started.
func (m *Match) Target() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.target, m.target > 0
}

// Toss returns the recorded toss, if any.
func (m *Match) Toss() (Toss, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.toss == nil {
		return Toss{}, false
	}
	return *m.toss, true
}

// Result returns the outcome once the match is completed.
func (m *Match) Result() (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

func (m *Match) team(id uint) (Team, Team, bool) {
	switch id {
	case m.teams[0].ID:
		return m.teams[0], m.teams[1], true
	case m.teams[1].ID:
		return m.teams[1], m.teams[0], true
	}
	return Team{}, Team{}, false
}

// RecordToss moves the match to the first innings. inningsID identifies the new innings.
func (m *Match) RecordToss(toss Toss, inningsID uint) (Innings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAwaitingToss {
		return Innings{}, invalidState("toss already recorded, match is %s", m.state)
	}
	if inningsID == 0 {
		return Innings{}, validation("innings id is required")
	}
	winner, loser, ok := m.team(toss.WinnerTeamID)
	if !ok {
		return Innings{}, validation("team %d is not playing in match %d", toss.WinnerTeamID, m.id)
	}

	batting, bowling := winner, loser
	switch toss.Decision {
	case TossBat:
	case TossBowl:
		batting, bowling = loser, winner
	default:
		return Innings{}, validation("toss decision must be bat or bowl, got %q", toss.Decision)
	}

	m.toss = &toss
	m.openInnings(inningsID, 1, batting, bowling)
	m.state = StateInnings1InProgress
	return m.view(m.innings[0]), nil
}

func (m *Match) openInnings(id uint, number int, batting, bowling Team) {
	m.store.Open(id)
	m.innings = append(m.innings, &inningsState{
		Innings: Innings{
			ID:            id,
			Number:        number,
			BattingTeamID: batting.ID,
			BowlingTeamID: bowling.ID,
		},
		batting: batting,
		bowling: bowling,
	})
}

// StartSecondInnings is the operator's explicit go-ahead for the chase. The target is
// frozen at first innings runs plus one.
func (m *Match) StartSecondInnings(inningsID uint) (Innings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInnings1Complete {
		return Innings{}, invalidState("second innings cannot start while match is %s", m.state)
	}
	first := m.innings[0]
	if inningsID == 0 || inningsID == first.ID {
		return Innings{}, validation("second innings needs a new innings id")
	}

	m.target = Summarize(m.store.Events(first.ID)).Runs + 1
	m.openInnings(inningsID, 2, first.bowling, first.batting)
	m.state = StateInnings2InProgress
	return m.view(m.innings[1]), nil
}

// Declare closes the current innings at the batting side's request.
func (m *Match) Declare(inningsID uint) (SubmitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.current(inningsID)
	if err != nil {
		return SubmitResult{}, err
	}
	summary := Summarize(m.store.Events(cur.ID))
	if err := m.complete(cur, ReasonDeclared, summary); err != nil {
		return SubmitResult{}, err
	}
	return m.outcome(cur, summary, ReasonDeclared), nil
}

func (m *Match) current(inningsID uint) (*inningsState, error) {
	if !m.state.InProgress() {
		return nil, invalidState("no innings in progress, match is %s", m.state)
	}
	cur := m.innings[len(m.innings)-1]
	if inningsID != cur.ID {
		if err := m.store.CanAppend(inningsID); err != nil {
			return nil, err
		}
		return nil, invalidState("innings %d is not the current innings", inningsID)
	}
	return cur, nil
}

func (m *Match) wicketLimit(batting Team) int {
	limit := m.rules.MaxWickets
	if n := len(batting.Players); n > 1 && n-1 < limit {
		limit = n - 1
	}
	return limit
}

// Submit scores one ball. The ball is checked against the squads and the ball log, commit
// is called with the outcome, and only then is the ball appended and any innings or match
// transition applied.
func (m *Match) Submit(event BallEvent, commit CommitFunc) (SubmitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event = event.Normalize()
	if event.InningsID == 0 && m.state.InProgress() {
		event.InningsID = m.innings[len(m.innings)-1].ID
	}
	cur, err := m.current(event.InningsID)
	if err != nil {
		return SubmitResult{}, err
	}
	if err := event.Validate(); err != nil {
		return SubmitResult{}, err
	}
	if err := m.checkPlayers(cur, event); err != nil {
		return SubmitResult{}, err
	}
	if err := m.checkSequence(cur, event); err != nil {
		return SubmitResult{}, err
	}

	event.Sequence = m.store.NextSequence()
	after := Summarize(withEvent(m.store.Events(cur.ID), event))

	var reason CompletionReason
	switch {
	case cur.Number == 2 && after.Runs >= m.target:
		reason = ReasonTargetReached
	case after.Wickets >= m.wicketLimit(cur.batting):
		reason = ReasonAllOut
	case after.LegalBalls >= m.rules.OversPerInnings*BallsPerOver:
		reason = ReasonOversComplete
	}

	res := m.preview(cur, event, after, reason)
	if commit != nil {
		if err := commit(res); err != nil {
			return SubmitResult{}, err
		}
	}

	stored, err := m.store.Append(event)
	if err != nil {
		return SubmitResult{}, err
	}
	res.Event = stored
	if reason != "" {
		if err := m.complete(cur, reason, after); err != nil {
			return SubmitResult{}, err
		}
	}
	res.Innings = m.view(cur)
	return res, nil
}

// preview computes the outcome of a ball without applying it.
func (m *Match) preview(cur *inningsState, event BallEvent, after Summary, reason CompletionReason) SubmitResult {
	res := SubmitResult{
		Event:   event,
		Innings: m.view(cur),
		Summary: after,
		State:   m.state,
		Target:  m.target,
	}
	if reason == "" {
		return res
	}
	res.InningsCompleted = true
	res.CompletionReason = reason
	res.Innings.Status = InningsCompleted
	res.Innings.CompletionReason = reason
	if cur.Number == 1 {
		res.State = StateInnings1Complete
	} else {
		res.State = StateCompleted
		r := m.decide(cur, after)
		res.Result = &r
	}
	return res
}

func (m *Match) outcome(cur *inningsState, summary Summary, reason CompletionReason) SubmitResult {
	return SubmitResult{
		Innings:          m.view(cur),
		Summary:          summary,
		InningsCompleted: true,
		State:            m.state,
		Target:           m.target,
		Result:           m.result,
		CompletionReason: reason,
	}
}

func (m *Match) complete(cur *inningsState, reason CompletionReason, summary Summary) error {
	if err := m.store.Complete(cur.ID, reason == ReasonDeclared); err != nil {
		return err
	}
	cur.CompletionReason = reason
	cur.Declared = reason == ReasonDeclared
	if cur.Number == 1 {
		m.state = StateInnings1Complete
		return nil
	}
	m.state = StateCompleted
	r := m.decide(cur, summary)
	m.result = &r
	return nil
}

// decide works out the result from the chase.
func (m *Match) decide(chase *inningsState, summary Summary) Result {
	switch {
	case summary.Runs >= m.target:
		id := chase.batting.ID
		margin := m.wicketLimit(chase.batting) - summary.Wickets
		return Result{
			WinnerTeamID: &id,
			Margin:       margin,
			MarginType:   "wickets",
			Summary:      fmt.Sprintf("%s won by %s", teamName(chase.batting), plural(margin, "wicket")),
		}
	case summary.Runs == m.target-1:
		return Result{IsTie: true, Summary: "Match tied"}
	default:
		id := chase.bowling.ID
		margin := m.target - 1 - summary.Runs
		return Result{
			WinnerTeamID: &id,
			Margin:       margin,
			MarginType:   "runs",
			Summary:      fmt.Sprintf("%s won by %s", teamName(chase.bowling), plural(margin, "run")),
		}
	}
}

func teamName(t Team) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("Team %d", t.ID)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (m *Match) checkPlayers(cur *inningsState, e BallEvent) error {
	for _, id := range []uint{e.BatsmanID, e.NonStrikerID} {
		if !cur.batting.Players.Has(id) {
			return unknownPlayer("player %d is not in the batting squad of team %d", id, cur.batting.ID)
		}
	}
	if !cur.bowling.Players.Has(e.BowlerID) {
		return unknownPlayer("player %d is not in the bowling squad of team %d", e.BowlerID, cur.bowling.ID)
	}
	if e.FielderID != nil && !cur.bowling.Players.Has(*e.FielderID) {
		return unknownPlayer("fielder %d is not in the fielding squad of team %d", *e.FielderID, cur.bowling.ID)
	}
	return nil
}

// checkSequence verifies the ball position and the players against what the log says
// has already happened.
func (m *Match) checkSequence(cur *inningsState, e BallEvent) error {
	events := m.store.Events(cur.ID)
	legal := 0
	out := make(map[uint]bool)
	lastOver := make(map[uint]int) // bowler -> latest over they delivered in
	for ev := range events {
		if ev.IsLegal() {
			legal++
		}
		if id, ok := ev.Dismissed(); ok {
			out[id] = true
		}
		lastOver[ev.BowlerID] = ev.Over
	}

	over, ball := legal/BallsPerOver, legal%BallsPerOver+1
	if e.Over != over || e.BallInOver != ball {
		return validation("expected ball %d.%d, got %d.%d", over, ball, e.Over, e.BallInOver)
	}
	for _, id := range []uint{e.BatsmanID, e.NonStrikerID} {
		if out[id] {
			return validation("player %d is already out", id)
		}
	}
	// any ball in the previous over counts, so a bowler who was replaced mid-over still
	// sits out the next one
	if o, ok := lastOver[e.BowlerID]; ok && o == over-1 {
		return validation("bowler %d cannot bowl consecutive overs", e.BowlerID)
	}
	return nil
}

func (m *Match) view(s *inningsState) Innings {
	v := s.Innings
	if status, declared, ok := m.store.Status(s.ID); ok {
		v.Status = status
		v.Declared = declared
	}
	return v
}

func (m *Match) find(inningsID uint) (*inningsState, error) {
	for _, s := range m.innings {
		if s.ID == inningsID {
			return s, nil
		}
	}
	return nil, invalidState("innings %d does not belong to match %d", inningsID, m.id)
}

// Innings returns every innings opened so far, in order.
func (m *Match) Innings() []Innings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Innings, 0, len(m.innings))
	for _, s := range m.innings {
		out = append(out, m.view(s))
	}
	return out
}

// CurrentInnings returns the most recently opened innings.
func (m *Match) CurrentInnings() (Innings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.innings) == 0 {
		return Innings{}, false
	}
	return m.view(m.innings[len(m.innings)-1]), true
}

// Statistics recomputes the full scorecard of an innings from its ball log.
func (m *Match) Statistics(inningsID uint) (Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.find(inningsID)
	if err != nil {
		return Statistics{}, err
	}
	return BuildStatistics(s.ID, m.store.Events(s.ID), s.batting.Players, s.bowling.Players)
}

// PlayerRows returns the flattened per-player rows of an innings.
func (m *Match) PlayerRows(inningsID uint) ([]PlayerMatchStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.find(inningsID)
	if err != nil {
		return nil, err
	}
	players, err := AggregatePlayers(m.store.Events(s.ID), s.batting.Players, s.bowling.Players)
	if err != nil {
		return nil, err
	}
	return players.Rows(s.ID), nil
}

// ScoreSummary is the compact score line shown on the scoring screen.
type ScoreSummary struct {
	Innings
	Summary
	Target          int     `json:"target,omitempty"`
	RunsNeeded      int     `json:"runs_needed,omitempty"`
	BallsRemaining  int     `json:"balls_remaining"`
	RequiredRunRate float64 `json:"required_run_rate,omitempty"`
}

// ScoreSummary returns runs, wickets, overs and run rate, plus the chase equation for the
// second innings.
func (m *Match) ScoreSummary(inningsID uint) (ScoreSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.find(inningsID)
	if err != nil {
		return ScoreSummary{}, err
	}
	sum := Summarize(m.store.Events(s.ID))
	out := ScoreSummary{
		Innings:        m.view(s),
		Summary:        sum,
		BallsRemaining: max(m.rules.OversPerInnings*BallsPerOver-sum.LegalBalls, 0),
	}
	if out.Status == InningsCompleted {
		out.BallsRemaining = 0
	}
	if s.Number == 2 {
		out.Target = m.target
		out.RunsNeeded = max(m.target-sum.Runs, 0)
		out.RequiredRunRate = RequiredRunRate(out.RunsNeeded, out.BallsRemaining)
	}
	return out, nil
}

// LastBalls returns up to n of the most recent deliveries of an innings, oldest first.
func (m *Match) LastBalls(inningsID uint, n int) ([]BallEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.find(inningsID); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, validation("n must not be negative, got %d", n)
	}
	return m.store.Last(inningsID, n), nil
}
