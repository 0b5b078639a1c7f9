package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/scorebook/internal/live"
	"github.com/DhavalSuthar-24/scorebook/internal/pkg/testdb"
	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
	"github.com/DhavalSuthar-24/scorebook/internal/user"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorder keeps every published update.
type recorder struct {
	mu      sync.Mutex
	updates []live.Update
	err     error
}

func (r *recorder) Publish(_ context.Context, u live.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
	return r.err
}

func (r *recorder) types() []live.UpdateType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]live.UpdateType, 0, len(r.updates))
	for _, u := range r.updates {
		out = append(out, u.Type)
	}
	return out
}

// flakyRepo fails delivery writes while failDelivery is set.
type flakyRepo struct {
	MatchRepository
	mu           *sync.Mutex
	failDelivery *bool
}

func newFlakyRepo(inner MatchRepository) *flakyRepo {
	fail := false
	return &flakyRepo{MatchRepository: inner, mu: &sync.Mutex{}, failDelivery: &fail}
}

func (f *flakyRepo) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.failDelivery = v
}

func (f *flakyRepo) WithTransaction(fn func(MatchRepository) error) error {
	return f.MatchRepository.WithTransaction(func(tx MatchRepository) error {
		return fn(&flakyRepo{MatchRepository: tx, mu: f.mu, failDelivery: f.failDelivery})
	})
}

func (f *flakyRepo) SaveDelivery(d *BallDelivery) error {
	f.mu.Lock()
	fail := *f.failDelivery
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.MatchRepository.SaveDelivery(d)
}

// fixture is a database with two three-player teams.
type fixture struct {
	db    *gorm.DB
	repo  MatchRepository
	teams team.TeamRepository
	home  team.Team
	away  team.Team
	// player ids in squad order
	homeIDs []uint
	awayIDs []uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t,
		&user.User{}, &team.Team{}, &team.Player{},
		&Match{}, &MatchPlayer{}, &Inning{}, &BallDelivery{}, &PlayerMatchStat{},
	)
	f := &fixture{db: db, repo: NewGormMatchRepository(db), teams: team.NewTeamRepository(db)}
	f.home, f.homeIDs = f.createTeam(t, "Lions", "Asha", "Bina", "Chetan")
	f.away, f.awayIDs = f.createTeam(t, "Tigers", "Dev", "Esha", "Farid")
	return f
}

func (f *fixture) createTeam(t *testing.T, name string, players ...string) (team.Team, []uint) {
	t.Helper()
	tm := team.Team{Name: name}
	require.NoError(t, f.teams.CreateTeam(&tm))
	ids := make([]uint, 0, len(players))
	for i, p := range players {
		pl := team.Player{TeamID: tm.ID, Name: p, Role: team.RoleAllRounder, JerseyNumber: i + 1, IsActive: true}
		require.NoError(t, f.teams.CreatePlayer(&pl))
		ids = append(ids, pl.ID)
	}
	return tm, ids
}

func (f *fixture) service(opts ...ServiceOption) *ScoringService {
	return NewScoringService(f.repo, f.teams, opts...)
}

// newMatch creates a two over match with the home side batting first.
func (f *fixture) newMatch(t *testing.T, svc *ScoringService) (*Match, scoring.Innings) {
	t.Helper()
	ctx := context.Background()
	m, err := svc.CreateMatch(ctx, CreateMatchInput{HomeTeamID: f.home.ID, AwayTeamID: f.away.ID, OversPerInnings: 2})
	require.NoError(t, err)
	innings, err := svc.RecordToss(ctx, m.ID, scoring.Toss{WinnerTeamID: f.home.ID, Decision: scoring.TossBat})
	require.NoError(t, err)
	return m, innings
}

// dot is a legal delivery at position legal (0-based count of legal balls so far).
// Bowlers alternate by over.
func dot(inningsID uint, legal int, batting, bowling []uint, runs int) scoring.BallEvent {
	over := legal / scoring.BallsPerOver
	return scoring.BallEvent{
		InningsID:    inningsID,
		Over:         over,
		BallInOver:   legal%scoring.BallsPerOver + 1,
		BatsmanID:    batting[0],
		NonStrikerID: batting[1],
		BowlerID:     bowling[over%2],
		RunsOffBat:   runs,
	}
}
