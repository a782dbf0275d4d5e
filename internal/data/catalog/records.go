package catalog

import (
	"strconv"
	"time"

	domaincatalog "gamecatalog/app/internal/domain/catalog"
)

// PlatformRecord is the stored form of a platform document.
type PlatformRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;index:idx_platforms_name;not null"`
	Slug      string `gorm:"size:255;index:idx_platforms_slug;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the PlatformRecord model.
func (PlatformRecord) TableName() string {
	return "platforms"
}

// GameRecord is the stored form of a game document.
type GameRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:255;index:idx_games_name_platform,priority:1;not null"`
	Slug         string `gorm:"size:255;index:idx_games_slug;not null"`
	PlatformSlug string `gorm:"size:255;index:idx_games_name_platform,priority:2;index:idx_games_platform_slug;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName defines the table name for the GameRecord model.
func (GameRecord) TableName() string {
	return "games"
}

func toDomainPlatform(record *PlatformRecord) *domaincatalog.Platform {
	if record == nil {
		return nil
	}

	return &domaincatalog.Platform{
		ID:   formatID(record.ID),
		Name: record.Name,
		Slug: record.Slug,
	}
}

func toDomainGame(record *GameRecord) *domaincatalog.Game {
	if record == nil {
		return nil
	}

	return &domaincatalog.Game{
		ID:           formatID(record.ID),
		Name:         record.Name,
		Slug:         record.Slug,
		PlatformSlug: record.PlatformSlug,
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseID(id string) (uint, bool) {
	parsed, err := strconv.ParseUint(id, 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
