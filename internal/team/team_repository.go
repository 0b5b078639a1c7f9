package team

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	errTeamNotFound   = errors.New("team not found")
	errPlayerNotFound = errors.New("player not found")
	errJerseyTaken    = errors.New("jersey number is already taken in this team")
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Team operations
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error)
	UpdateTeam(team *Team) error
	DeleteTeam(id uint) error

	// Player operations
	CreatePlayer(player *Player) error
	GetPlayerByID(teamID, playerID uint) (*Player, error)
	GetPlayersByTeamID(teamID uint, includeInactive bool) ([]Player, error)
	UpdatePlayer(player *Player) error
	DeactivatePlayer(teamID, playerID uint) error
	IsJerseyNumberTaken(teamID uint, number int, excludePlayerID uint) (bool, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team Operations ---

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

// GetTeamByID loads a team with its active players ordered by id.
func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	err := r.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("id asc")
	}).First(&team, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	if err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetAllTeams(page, limit int, filters map[string]interface{}) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})

	if name, ok := filters["name"]; ok {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name.(string))+"%")
	}
	if createdBy, ok := filters["created_by_id"]; ok {
		query = query.Where("created_by_id = ?", createdBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Omit("Players").Save(team).Error
}

// DeleteTeam soft deletes the team and its players.
func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&Player{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Team{}, id).Error
	})
}

// --- Player Operations ---

func (r *teamRepository) CreatePlayer(player *Player) error {
	return r.db.Create(player).Error
}

func (r *teamRepository) GetPlayerByID(teamID, playerID uint) (*Player, error) {
	var player Player
	if err := r.db.Where("team_id = ? AND id = ?", teamID, playerID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *teamRepository) GetPlayersByTeamID(teamID uint, includeInactive bool) ([]Player, error) {
	var players []Player
	query := r.db.Where("team_id = ?", teamID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("id asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *teamRepository) UpdatePlayer(player *Player) error {
	return r.db.Save(player).Error
}

// DeactivatePlayer keeps the row so scorecards of past matches still resolve the player.
func (r *teamRepository) DeactivatePlayer(teamID, playerID uint) error {
	result := r.db.Model(&Player{}).Where("team_id = ? AND id = ?", teamID, playerID).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *teamRepository) IsJerseyNumberTaken(teamID uint, number int, excludePlayerID uint) (bool, error) {
	if number == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Model(&Player{}).
		Where("team_id = ? AND jersey_number = ? AND is_active = ? AND id <> ?", teamID, number, true, excludePlayerID).
		Count(&count).Error
	return count > 0, err
}

// WithTransaction runs txFunc against a repository bound to one transaction.
func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &teamRepository{db: tx}
		return txFunc(txRepo)
	})
}
