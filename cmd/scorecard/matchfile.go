package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
)

const (
	homeTeamID uint = 1
	awayTeamID uint = 2
)

var errNoInnings = errors.New("match file has no innings")

// MatchFile is a complete ball log as written by hand or exported from the service.
type MatchFile struct {
	Title string        `json:"title" yaml:"title"`
	Rules scoring.Rules `json:"rules" yaml:"rules"`
	Home  TeamFile      `json:"home" yaml:"home"`
	Away  TeamFile      `json:"away" yaml:"away"`
	Toss  TossFile      `json:"toss" yaml:"toss"`
	// At most two entries, in batting order.
	Innings []InningsFile `json:"innings" yaml:"innings"`
}

type TeamFile struct {
	Name    string       `json:"name" yaml:"name"`
	Players []PlayerFile `json:"players" yaml:"players"`
}

type PlayerFile struct {
	ID   uint   `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// TossFile names the toss winner as "home" or "away".
type TossFile struct {
	Winner   string               `json:"winner" yaml:"winner"`
	Decision scoring.TossDecision `json:"decision" yaml:"decision"`
}

type InningsFile struct {
	Declared bool                `json:"declared" yaml:"declared"`
	Balls    []scoring.BallEvent `json:"balls" yaml:"balls"`
}

// loadMatchFile decodes path as JSON when it ends in .json and as YAML otherwise.
func loadMatchFile(path string) (*MatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading match file: %w", err)
	}

	var mf MatchFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &mf)
	} else {
		err = yaml.Unmarshal(data, &mf)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if len(mf.Innings) == 0 {
		return nil, errNoInnings
	}
	if len(mf.Innings) > 2 {
		return nil, fmt.Errorf("match file has %d innings, at most 2 are played", len(mf.Innings))
	}
	if mf.Rules == (scoring.Rules{}) {
		mf.Rules = scoring.DefaultRules()
	}
	return &mf, nil
}

func (t TeamFile) team(id uint) scoring.Team {
	ids := make([]uint, 0, len(t.Players))
	for _, p := range t.Players {
		ids = append(ids, p.ID)
	}
	return scoring.Team{ID: id, Name: t.Name, Players: scoring.NewSquad(ids...)}
}

// names maps every player id of both squads to a display name.
func (mf *MatchFile) names() map[uint]string {
	out := make(map[uint]string)
	for _, t := range []TeamFile{mf.Home, mf.Away} {
		for _, p := range t.Players {
			out[p.ID] = p.Name
		}
	}
	return out
}

func (mf *MatchFile) teamName(id uint) string {
	if id == homeTeamID {
		return mf.Home.Name
	}
	return mf.Away.Name
}

// replay feeds the file through a fresh scoring engine. Innings ids are the innings
// numbers.
func replay(mf *MatchFile) (*scoring.Match, error) {
	m, err := scoring.NewMatch(1, mf.Rules, mf.Home.team(homeTeamID), mf.Away.team(awayTeamID))
	if err != nil {
		return nil, err
	}

	toss := scoring.Toss{Decision: mf.Toss.Decision}
	switch strings.ToLower(mf.Toss.Winner) {
	case "home":
		toss.WinnerTeamID = homeTeamID
	case "away":
		toss.WinnerTeamID = awayTeamID
	default:
		return nil, fmt.Errorf("toss winner must be home or away, got %q", mf.Toss.Winner)
	}
	if _, err := m.RecordToss(toss, 1); err != nil {
		return nil, err
	}

	for i, inn := range mf.Innings {
		id := uint(i + 1)
		if id == 2 {
			if _, err := m.StartSecondInnings(id); err != nil {
				return nil, err
			}
		}
		for n, ball := range inn.Balls {
			ball.InningsID = id
			ball.Sequence = 0
			if _, err := m.Submit(ball, nil); err != nil {
				return nil, fmt.Errorf("innings %d, ball %d (%d.%d): %w", id, n+1, ball.Over, ball.BallInOver, err)
			}
		}
		if inn.Declared {
			if _, err := m.Declare(id); err != nil {
				return nil, fmt.Errorf("declaring innings %d: %w", id, err)
			}
		}
	}
	return m, nil
}
