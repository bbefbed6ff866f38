package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song statuses as stored by the catalog UI.
const (
	SongStatusFuture   = "Future Plans"
	SongStatusWip      = "In Progress"
	SongStatusReleased = "Released"
)

type Song struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index:idx_song_owner_status,priority:1;not null" json:"user_id"`
	PackID     *uuid.UUID `gorm:"type:uuid;index" json:"pack_id,omitempty"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Artist     string     `gorm:"size:255" json:"artist"`
	Album      string     `gorm:"size:255" json:"album"`
	Year       *int       `json:"year,omitempty"`
	Status     string     `gorm:"size:20;index:idx_song_owner_status,priority:2;not null" json:"status"`
	Optional   bool       `gorm:"default:false" json:"optional"` // optional songs don't block pack completion
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Pack struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Songs      []Song     `gorm:"foreignKey:PackID" json:"songs,omitempty"`
}

func (p *Pack) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type AlbumSeries struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	PackID       *uuid.UUID `gorm:"type:uuid" json:"pack_id,omitempty"`
	ArtistName   string     `gorm:"size:255;not null" json:"artist_name"`
	AlbumName    string     `gorm:"size:255;not null" json:"album_name"`
	SeriesNumber int        `json:"series_number"`
	Status       string     `gorm:"size:20" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (a *AlbumSeries) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Collaboration types.
const (
	CollaborationSongEdit = "song_edit"
	CollaborationPackView = "pack_view"
	CollaborationPackEdit = "pack_edit"
)

type Collaboration struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`        // who shared the song or pack
	CollaboratorID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"collaborator_id"` // who was added
	SongID            *uuid.UUID `gorm:"type:uuid" json:"song_id,omitempty"`
	PackID            *uuid.UUID `gorm:"type:uuid" json:"pack_id,omitempty"`
	CollaborationType string     `gorm:"size:20;not null" json:"collaboration_type"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Collaboration) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type FeatureRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *FeatureRequest) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
