// team/model.go
package team

import (
	"gorm.io/gorm"
)

// Player roles in a squad.
const (
	RoleBatter       = "batter"
	RoleBowler       = "bowler"
	RoleAllRounder   = "all_rounder"
	RoleWicketKeeper = "wicket_keeper"
)

// Team represents a cricket side
type Team struct {
	gorm.Model
	Name        string   `json:"name" gorm:"not null;index"`
	ShortName   string   `json:"short_name" gorm:"size:8"`
	Logo        string   `json:"logo"`
	CreatedByID uint     `json:"created_by_id" gorm:"index"`
	Players     []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// Player is a squad member of one team
type Player struct {
	gorm.Model
	TeamID       uint   `json:"team_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"not null"`
	Role         string `json:"role" gorm:"default:'batter'"`
	BattingStyle string `json:"batting_style"`
	BowlingStyle string `json:"bowling_style"`
	JerseyNumber int    `json:"jersey_number"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// PlayerIDs lists the ids of the active players, in the order they were loaded.
func (t *Team) PlayerIDs() []uint {
	ids := make([]uint, 0, len(t.Players))
	for _, p := range t.Players {
		if p.IsActive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
