package match

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/scorebook/internal/live"
	"github.com/DhavalSuthar-24/scorebook/internal/metrics"
	"github.com/DhavalSuthar-24/scorebook/internal/pkg/lock"
	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
	"github.com/rs/zerolog/log"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrInningsNotFound = errors.New("innings not found")
	ErrTeamNotFound    = errors.New("team not found")
)

const publishTimeout = 2 * time.Second

// CreateMatchInput describes a new fixture. Zero rules fall back to the service defaults.
type CreateMatchInput struct {
	Title           string
	HomeTeamID      uint
	AwayTeamID      uint
	OversPerInnings int
	MaxWickets      int
	Venue           string
	ScheduledAt     *time.Time
	CreatedByID     uint
}

// entry is one loaded match: the engine plus the squads it was built with.
type entry struct {
	engine *scoring.Match
	squads map[uint]scoring.Squad
}

// ScoringService keeps one scoring engine per match in memory. Engines are rebuilt from
// the persisted ball log on first use and all writes for a match are serialised.
type ScoringService struct {
	repo        MatchRepository
	teams       team.TeamRepository
	locks       *lock.KeyLock
	lockTimeout time.Duration
	publisher   live.Publisher
	metrics     *metrics.Metrics
	defaults    scoring.Rules

	mu      sync.RWMutex
	matches map[uint]*entry
}

// ServiceOption configures a ScoringService.
type ServiceOption func(*ScoringService)

func WithPublisher(p live.Publisher) ServiceOption {
	return func(s *ScoringService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *ScoringService) { s.metrics = m }
}

func WithLockTimeout(d time.Duration) ServiceOption {
	return func(s *ScoringService) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithDefaultRules sets the rules used when a new match does not specify them.
func WithDefaultRules(r scoring.Rules) ServiceOption {
	return func(s *ScoringService) {
		if r.OversPerInnings > 0 {
			s.defaults.OversPerInnings = r.OversPerInnings
		}
		if r.MaxWickets > 0 {
			s.defaults.MaxWickets = r.MaxWickets
		}
	}
}

func NewScoringService(repo MatchRepository, teams team.TeamRepository, opts ...ServiceOption) *ScoringService {
	s := &ScoringService{
		repo:        repo,
		teams:       teams,
		locks:       lock.NewKeyLock(),
		lockTimeout: 5 * time.Second,
		publisher:   live.Nop{},
		defaults:    scoring.DefaultRules(),
		matches:     make(map[uint]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validationError(format string, args ...any) error {
	return &scoring.Error{Kind: scoring.KindValidation, Message: fmt.Sprintf(format, args...)}
}

func invalidStateError(format string, args ...any) error {
	return &scoring.Error{Kind: scoring.KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// --- cache ---

func (s *ScoringService) cached(matchID uint) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.matches[matchID]
	return e, ok
}

func (s *ScoringService) store(matchID uint, e *entry) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.matches[matchID]; ok {
		return existing
	}
	s.matches[matchID] = e
	s.metrics.SetMatchesLoaded(len(s.matches))
	return e
}

// Evict drops a match from memory. The next access rebuilds it from the database.
func (s *ScoringService) Evict(matchID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, matchID)
	s.metrics.SetMatchesLoaded(len(s.matches))
}

// Loaded reports how many matches are held in memory.
func (s *ScoringService) Loaded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

func (s *ScoringService) load(matchID uint) (*entry, error) {
	if e, ok := s.cached(matchID); ok {
		return e, nil
	}
	e, err := s.hydrate(matchID)
	if err != nil {
		return nil, err
	}
	return s.store(matchID, e), nil
}

// hydrate rebuilds a match by replaying its persisted history through a fresh engine.
func (s *ScoringService) hydrate(matchID uint) (*entry, error) {
	row, err := s.repo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match %d: %w", matchID, err)
	}
	if row == nil {
		return nil, ErrMatchNotFound
	}

	home, away := row.Sides()
	engine, err := scoring.NewMatch(row.ID, row.Rules(), home, away)
	if err != nil {
		return nil, fmt.Errorf("rebuilding match %d: %w", matchID, err)
	}
	e := &entry{engine: engine, squads: map[uint]scoring.Squad{home.ID: home.Players, away.ID: away.Players}}
	if len(row.Innings) == 0 {
		return e, nil
	}
	if row.TossWinnerTeamID == nil {
		return nil, fmt.Errorf("match %d has innings but no toss", matchID)
	}

	deliveries, err := s.repo.GetMatchDeliveries(matchID)
	if err != nil {
		return nil, fmt.Errorf("loading deliveries of match %d: %w", matchID, err)
	}
	byInning := make(map[uint][]BallDelivery)
	for _, d := range deliveries {
		byInning[d.InningID] = append(byInning[d.InningID], d)
	}

	toss := scoring.Toss{WinnerTeamID: *row.TossWinnerTeamID, Decision: scoring.TossDecision(row.TossDecision)}
	for _, in := range row.Innings {
		switch in.InningsNumber {
		case 1:
			_, err = engine.RecordToss(toss, in.ID)
		case 2:
			_, err = engine.StartSecondInnings(in.ID)
		default:
			err = fmt.Errorf("unexpected innings number %d", in.InningsNumber)
		}
		if err != nil {
			return nil, fmt.Errorf("rebuilding innings %d of match %d: %w", in.ID, matchID, err)
		}

		for _, d := range byInning[in.ID] {
			ev := d.ToEvent()
			ev.Sequence = 0
			res, err := engine.Submit(ev, nil)
			if err != nil {
				return nil, fmt.Errorf("replaying ball %d of innings %d: %w", d.Sequence, in.ID, err)
			}
			if res.Event.Sequence != d.Sequence {
				log.Warn().Uint("match_id", matchID).Uint("innings_id", in.ID).
					Int64("stored_seq", d.Sequence).Int64("replayed_seq", res.Event.Sequence).
					Msg("replay assigned a different sequence")
			}
		}

		if in.Declared {
			if cur, ok := engine.CurrentInnings(); ok && cur.ID == in.ID && cur.Status != scoring.InningsCompleted {
				if _, err := engine.Declare(in.ID); err != nil {
					return nil, fmt.Errorf("replaying declaration of innings %d: %w", in.ID, err)
				}
			}
		}
	}

	if engine.State() != row.Status {
		log.Warn().Uint("match_id", matchID).Str("stored", string(row.Status)).Str("replayed", string(engine.State())).
			Msg("stored match status differs from replayed state")
	}
	log.Debug().Uint("match_id", matchID).Int("balls", len(deliveries)).Msg("match hydrated")
	return e, nil
}

// write runs fn with the match lock held. A failure that is not a scoring rejection may
// have left the engine ahead of the database, so the match is evicted and rebuilt later.
func (s *ScoringService) write(ctx context.Context, matchID uint, fn func(*entry) error) error {
	err := s.locks.WithLockContext(ctx, matchID, s.lockTimeout, func() error {
		e, err := s.load(matchID)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			if scoring.KindOf(err) == "" {
				s.Evict(matchID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.Rejected(rejectReason(err))
	}
	return err
}

func rejectReason(err error) string {
	if kind := scoring.KindOf(err); kind != "" {
		return string(kind)
	}
	switch {
	case errors.Is(err, lock.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, ErrInningsNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "internal"
}

func (s *ScoringService) publish(ctx context.Context, updates ...live.Update) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	for _, u := range updates {
		if err := s.publisher.Publish(ctx, u); err != nil {
			log.Warn().Err(err).Uint("match_id", u.MatchID).Str("type", string(u.Type)).Msg("publishing live update failed")
		}
	}
}

// --- writes ---

// CreateMatch stores a new fixture with a snapshot of both squads.
func (s *ScoringService) CreateMatch(ctx context.Context, in CreateMatchInput) (*Match, error) {
	if in.HomeTeamID == in.AwayTeamID {
		return nil, validationError("a match needs two distinct teams")
	}
	rules := s.defaults
	if in.OversPerInnings > 0 {
		rules.OversPerInnings = in.OversPerInnings
	}
	if in.MaxWickets > 0 {
		rules.MaxWickets = in.MaxWickets
	}

	row := &Match{
		Title:           in.Title,
		HomeTeamID:      in.HomeTeamID,
		AwayTeamID:      in.AwayTeamID,
		Venue:           in.Venue,
		OversPerInnings: rules.OversPerInnings,
		MaxWickets:      rules.MaxWickets,
		Status:          scoring.StateAwaitingToss,
		ScheduledAt:     in.ScheduledAt,
		CreatedByID:     in.CreatedByID,
	}
	for _, id := range []uint{in.HomeTeamID, in.AwayTeamID} {
		t, err := s.teams.GetTeamByID(id)
		if err != nil {
			return nil, fmt.Errorf("loading team %d: %w", id, err)
		}
		if t == nil {
			return nil, fmt.Errorf("team %d: %w", id, ErrTeamNotFound)
		}
		players := t.PlayerIDs()
		if len(players) < 2 {
			return nil, validationError("team %s needs at least two active players", t.Name)
		}
		for _, pid := range players {
			row.Players = append(row.Players, MatchPlayer{TeamID: t.ID, PlayerID: pid})
		}
		if t.ID == in.HomeTeamID {
			row.HomeTeam = *t
		} else {
			row.AwayTeam = *t
		}
	}
	if row.Title == "" {
		row.Title = row.HomeTeam.Name + " vs " + row.AwayTeam.Name
	}

	var e *entry
	err := s.repo.WithTransaction(func(repo MatchRepository) error {
		if err := repo.CreateMatch(row); err != nil {
			return fmt.Errorf("creating match: %w", err)
		}
		home, away := row.Sides()
		engine, err := scoring.NewMatch(row.ID, rules, home, away)
		if err != nil {
			return err
		}
		e = &entry{engine: engine, squads: map[uint]scoring.Squad{home.ID: home.Players, away.ID: away.Players}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.store(row.ID, e)
	log.Info().Uint("match_id", row.ID).Str("title", row.Title).Int("overs", rules.OversPerInnings).Msg("match created")
	return row, nil
}

// RecordToss stores the toss and opens the first innings.
func (s *ScoringService) RecordToss(ctx context.Context, matchID uint, toss scoring.Toss) (scoring.Innings, error) {
	var opened scoring.Innings
	err := s.write(ctx, matchID, func(e *entry) error {
		if state := e.engine.State(); state != scoring.StateAwaitingToss {
			return invalidStateError("toss already recorded, match is %s", state)
		}
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			inning := &Inning{MatchID: matchID, InningsNumber: 1, Status: scoring.InningsNotStarted}
			if err := repo.CreateInning(inning); err != nil {
				return fmt.Errorf("creating innings: %w", err)
			}
			var err error
			opened, err = e.engine.RecordToss(toss, inning.ID)
			if err != nil {
				return err
			}
			inning.BattingTeamID = opened.BattingTeamID
			inning.BowlingTeamID = opened.BowlingTeamID
			if err := repo.UpdateInning(inning); err != nil {
				return fmt.Errorf("saving innings: %w", err)
			}
			return repo.UpdateMatchFields(matchID, map[string]interface{}{
				"status":              e.engine.State(),
				"toss_winner_team_id": toss.WinnerTeamID,
				"toss_decision":       string(toss.Decision),
			})
		})
	})
	if err != nil {
		return scoring.Innings{}, err
	}

	log.Info().Uint("match_id", matchID).Uint("innings_id", opened.ID).Uint("batting_team_id", opened.BattingTeamID).Msg("toss recorded")
	s.publish(ctx, live.Update{
		Type:      live.UpdateToss,
		MatchID:   matchID,
		InningsID: opened.ID,
		Payload:   map[string]any{"toss": toss, "innings": opened},
	})
	return opened, nil
}

// SubmitBall scores one delivery. The delivery, the innings totals, the player rows and
// the match state are written in one transaction before the ball becomes visible.
func (s *ScoringService) SubmitBall(ctx context.Context, matchID uint, event scoring.BallEvent) (scoring.SubmitResult, error) {
	var res scoring.SubmitResult
	err := s.write(ctx, matchID, func(e *entry) error {
		commit := func(pending scoring.SubmitResult) error {
			return s.repo.WithTransaction(func(repo MatchRepository) error {
				d := deliveryFromEvent(matchID, pending.Event)
				if err := repo.SaveDelivery(&d); err != nil {
					return fmt.Errorf("saving delivery: %w", err)
				}
				return persistOutcome(repo, e, matchID, pending)
			})
		}
		var err error
		res, err = e.engine.Submit(event, commit)
		return err
	})
	if err != nil {
		return scoring.SubmitResult{}, err
	}

	s.metrics.BallRecorded(res.Innings.Number)
	log.Debug().Uint("match_id", matchID).Uint("innings_id", res.Innings.ID).Int64("seq", res.Event.Sequence).
		Str("score", fmt.Sprintf("%d/%d", res.Summary.Runs, res.Summary.Wickets)).Str("overs", res.Summary.Overs).
		Msg("ball recorded")

	updates := []live.Update{{Type: live.UpdateBall, MatchID: matchID, InningsID: res.Innings.ID, Payload: res}}
	updates = append(updates, s.completionUpdates(matchID, res)...)
	s.publish(ctx, updates...)
	return res, nil
}

// Declare closes the current innings at the batting side's request.
func (s *ScoringService) Declare(ctx context.Context, matchID, inningsID uint) (scoring.SubmitResult, error) {
	var res scoring.SubmitResult
	err := s.write(ctx, matchID, func(e *entry) error {
		if inningsID == 0 {
			if cur, ok := e.engine.CurrentInnings(); ok {
				inningsID = cur.ID
			}
		}
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			var err error
			res, err = e.engine.Declare(inningsID)
			if err != nil {
				return err
			}
			return persistOutcome(repo, e, matchID, res)
		})
	})
	if err != nil {
		return scoring.SubmitResult{}, err
	}
	s.publish(ctx, s.completionUpdates(matchID, res)...)
	return res, nil
}

// StartSecondInnings opens the chase with the target frozen at first innings runs + 1.
func (s *ScoringService) StartSecondInnings(ctx context.Context, matchID uint) (scoring.Innings, error) {
	var opened scoring.Innings
	var target int
	err := s.write(ctx, matchID, func(e *entry) error {
		// the innings row is unique per number, so a repeated call must be refused before it is created
		if state := e.engine.State(); state != scoring.StateInnings1Complete {
			return invalidStateError("second innings cannot start while match is %s", state)
		}
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			inning := &Inning{MatchID: matchID, InningsNumber: 2, Status: scoring.InningsNotStarted}
			if err := repo.CreateInning(inning); err != nil {
				return fmt.Errorf("creating innings: %w", err)
			}
			var err error
			opened, err = e.engine.StartSecondInnings(inning.ID)
			if err != nil {
				return err
			}
			target, _ = e.engine.Target()
			inning.BattingTeamID = opened.BattingTeamID
			inning.BowlingTeamID = opened.BowlingTeamID
			inning.Target = &target
			if err := repo.UpdateInning(inning); err != nil {
				return fmt.Errorf("saving innings: %w", err)
			}
			return repo.UpdateMatchFields(matchID, map[string]interface{}{
				"status": e.engine.State(),
				"target": target,
			})
		})
	})
	if err != nil {
		return scoring.Innings{}, err
	}

	log.Info().Uint("match_id", matchID).Uint("innings_id", opened.ID).Int("target", target).Msg("second innings started")
	s.publish(ctx, live.Update{
		Type:      live.UpdateInningsStarted,
		MatchID:   matchID,
		InningsID: opened.ID,
		Payload:   map[string]any{"innings": opened, "target": target},
	})
	return opened, nil
}

func (s *ScoringService) completionUpdates(matchID uint, res scoring.SubmitResult) []live.Update {
	if !res.InningsCompleted {
		return nil
	}
	s.metrics.InningsCompleted(string(res.CompletionReason))
	log.Info().Uint("match_id", matchID).Uint("innings_id", res.Innings.ID).Str("reason", string(res.CompletionReason)).
		Str("score", fmt.Sprintf("%d/%d", res.Summary.Runs, res.Summary.Wickets)).Msg("innings completed")

	updates := []live.Update{{Type: live.UpdateInningsCompleted, MatchID: matchID, InningsID: res.Innings.ID, Payload: res}}
	if res.Result != nil {
		log.Info().Uint("match_id", matchID).Str("result", res.Result.Summary).Msg("match completed")
		updates = append(updates, live.Update{Type: live.UpdateMatchCompleted, MatchID: matchID, InningsID: res.Innings.ID, Payload: res.Result})
	}
	return updates
}

// persistOutcome writes what a ball or declaration changed: innings totals, the player
// rows of the innings and the match state.
func persistOutcome(repo MatchRepository, e *entry, matchID uint, res scoring.SubmitResult) error {
	inning, err := repo.GetInningByID(res.Innings.ID)
	if err != nil {
		return fmt.Errorf("loading innings: %w", err)
	}
	if inning == nil {
		return fmt.Errorf("innings %d: %w", res.Innings.ID, ErrInningsNotFound)
	}

	inning.applySummary(res.Summary)
	inning.Status = scoring.InningsInProgress
	if res.InningsCompleted {
		inning.Status = scoring.InningsCompleted
		inning.CompletionReason = string(res.CompletionReason)
		inning.Declared = res.CompletionReason == scoring.ReasonDeclared
	}
	if err := repo.UpdateInning(inning); err != nil {
		return fmt.Errorf("saving innings: %w", err)
	}

	deliveries, err := repo.GetDeliveries(inning.ID)
	if err != nil {
		return fmt.Errorf("loading deliveries: %w", err)
	}
	events := make([]scoring.BallEvent, 0, len(deliveries))
	for i := range deliveries {
		events = append(events, deliveries[i].ToEvent())
	}
	players, err := scoring.AggregatePlayers(slices.Values(events), e.squads[inning.BattingTeamID], e.squads[inning.BowlingTeamID])
	if err != nil {
		// not a rejection of the caller's input: the stored log disagrees with the squads
		return fmt.Errorf("aggregating player stats of innings %d: %v", inning.ID, err)
	}
	if err := repo.ReplacePlayerStats(inning.ID, statRows(matchID, players.Rows(inning.ID))); err != nil {
		return fmt.Errorf("saving player stats: %w", err)
	}

	fields := map[string]interface{}{"status": res.State}
	if r := res.Result; r != nil {
		fields["winner_team_id"] = r.WinnerTeamID
		fields["is_tie"] = r.IsTie
		fields["result_margin"] = r.Margin
		fields["margin_type"] = r.MarginType
		fields["result_summary"] = r.Summary
	}
	if err := repo.UpdateMatchFields(matchID, fields); err != nil {
		return fmt.Errorf("saving match state: %w", err)
	}
	return nil
}

// --- reads ---

// GetMatch returns the stored match.
func (s *ScoringService) GetMatch(matchID uint) (*Match, error) {
	row, err := s.repo.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrMatchNotFound
	}
	return row, nil
}

// ListMatches pages through matches, newest first.
func (s *ScoringService) ListMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	return s.repo.GetMatches(filters, page, pageSize)
}

// CurrentSummary returns the score line of the latest innings, or false before the toss.
func (s *ScoringService) CurrentSummary(matchID uint) (scoring.ScoreSummary, bool, error) {
	e, err := s.load(matchID)
	if err != nil {
		return scoring.ScoreSummary{}, false, err
	}
	cur, ok := e.engine.CurrentInnings()
	if !ok {
		return scoring.ScoreSummary{}, false, nil
	}
	sum, err := e.engine.ScoreSummary(cur.ID)
	return sum, err == nil, err
}

// Result returns the outcome of a completed match.
func (s *ScoringService) Result(matchID uint) (scoring.Result, error) {
	e, err := s.load(matchID)
	if err != nil {
		return scoring.Result{}, err
	}
	r, ok := e.engine.Result()
	if !ok {
		return scoring.Result{}, invalidStateError("match %d has no result yet, match is %s", matchID, e.engine.State())
	}
	return r, nil
}

func (s *ScoringService) inningsEngine(inningsID uint) (*entry, error) {
	inning, err := s.repo.GetInningByID(inningsID)
	if err != nil {
		return nil, err
	}
	if inning == nil {
		return nil, ErrInningsNotFound
	}
	return s.load(inning.MatchID)
}

// Statistics recomputes the scorecard of an innings from its ball log.
func (s *ScoringService) Statistics(inningsID uint) (scoring.Statistics, error) {
	e, err := s.inningsEngine(inningsID)
	if err != nil {
		return scoring.Statistics{}, err
	}
	return e.engine.Statistics(inningsID)
}

// ScoreSummary returns the score line of an innings.
func (s *ScoringService) ScoreSummary(inningsID uint) (scoring.ScoreSummary, error) {
	e, err := s.inningsEngine(inningsID)
	if err != nil {
		return scoring.ScoreSummary{}, err
	}
	return e.engine.ScoreSummary(inningsID)
}

// LastBalls returns up to n of the latest deliveries of an innings, oldest first.
func (s *ScoringService) LastBalls(inningsID uint, n int) ([]scoring.BallEvent, error) {
	e, err := s.inningsEngine(inningsID)
	if err != nil {
		return nil, err
	}
	return e.engine.LastBalls(inningsID, n)
}

// PlayerStats reads the stored per-player rows of an innings.
func (s *ScoringService) PlayerStats(inningsID uint) ([]PlayerMatchStat, error) {
	inning, err := s.repo.GetInningByID(inningsID)
	if err != nil {
		return nil, err
	}
	if inning == nil {
		return nil, ErrInningsNotFound
	}
	return s.repo.GetPlayerStats(inningsID)
}
