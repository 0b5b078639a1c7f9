package match

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository defines the persistence operations of the scoring service
type MatchRepository interface {
	// Match operations
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error)
	UpdateMatchFields(id uint, fields map[string]interface{}) error

	// Inning operations
	CreateInning(inning *Inning) error
	GetInningByID(id uint) (*Inning, error)
	UpdateInning(inning *Inning) error

	// Ball-by-ball operations
	SaveDelivery(delivery *BallDelivery) error
	GetDeliveries(inningID uint) ([]BallDelivery, error)
	GetMatchDeliveries(matchID uint) ([]BallDelivery, error)

	// Player statistics cache
	ReplacePlayerStats(inningID uint, stats []PlayerMatchStat) error
	GetPlayerStats(inningID uint) ([]PlayerMatchStat, error)

	// Transaction support
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormMatchRepository{db: tx}
	err := txFunc(txRepo)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Match Repository Methods

// CreateMatch creates a match together with its squad snapshot
func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Omit("HomeTeam", "AwayTeam").Create(match).Error
}

// GetMatchByID retrieves a match with its teams, innings and squad snapshot
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var match Match
	result := r.db.Preload("HomeTeam").
		Preload("AwayTeam").
		Preload("Innings", func(db *gorm.DB) *gorm.DB {
			return db.Order("innings_number asc")
		}).
		Preload("Players").
		First(&match, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &match, nil
}

// GetMatches retrieves matches based on filters with pagination
func (r *GormMatchRepository) GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})

	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if teamID, ok := filters["team_id"]; ok {
		query = query.Where("home_team_id = ? OR away_team_id = ?", teamID, teamID)
	}

	// Count total before pagination
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("HomeTeam").
		Preload("AwayTeam").
		Order("created_at desc").
		Offset(offset).
		Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// UpdateMatchFields writes only the given columns of a match
func (r *GormMatchRepository) UpdateMatchFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&Match{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("match %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Inning Repository Methods

func (r *GormMatchRepository) CreateInning(inning *Inning) error {
	return r.db.Create(inning).Error
}

func (r *GormMatchRepository) GetInningByID(id uint) (*Inning, error) {
	var inning Inning
	if err := r.db.First(&inning, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inning, nil
}

func (r *GormMatchRepository) UpdateInning(inning *Inning) error {
	return r.db.Omit(clause.Associations).Save(inning).Error
}

// Ball-by-ball Repository Methods

func (r *GormMatchRepository) SaveDelivery(delivery *BallDelivery) error {
	return r.db.Create(delivery).Error
}

// GetDeliveries returns the ball log of one innings in scoring order
func (r *GormMatchRepository) GetDeliveries(inningID uint) ([]BallDelivery, error) {
	var deliveries []BallDelivery
	err := r.db.Where("inning_id = ?", inningID).Order("sequence asc").Find(&deliveries).Error
	return deliveries, err
}

// GetMatchDeliveries returns the ball log of both innings in scoring order
func (r *GormMatchRepository) GetMatchDeliveries(matchID uint) ([]BallDelivery, error) {
	var deliveries []BallDelivery
	err := r.db.Where("match_id = ?", matchID).Order("sequence asc").Find(&deliveries).Error
	return deliveries, err
}

// Player statistics Repository Methods

// ReplacePlayerStats swaps the cached rows of an innings for stats
func (r *GormMatchRepository) ReplacePlayerStats(inningID uint, stats []PlayerMatchStat) error {
	if err := r.db.Unscoped().Where("inning_id = ?", inningID).Delete(&PlayerMatchStat{}).Error; err != nil {
		return err
	}
	if len(stats) == 0 {
		return nil
	}
	return r.db.Create(&stats).Error
}

func (r *GormMatchRepository) GetPlayerStats(inningID uint) ([]PlayerMatchStat, error) {
	var stats []PlayerMatchStat
	err := r.db.Where("inning_id = ?", inningID).Order("kind asc, id asc").Find(&stats).Error
	return stats, err
}
