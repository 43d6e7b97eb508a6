package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author      User      `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags        []Tag     `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Views       int       `gorm:"default:0" json:"views"`
	Answers     []Answer  `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`

	// Disjoint vote sets; vote_count is always derived from them,
	// never stored.
	Upvoters   []User `gorm:"many2many:question_upvoters;constraint:OnDelete:CASCADE" json:"-"`
	Downvoters []User `gorm:"many2many:question_downvoters;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID, err = uuid.NewV7()
	}
	return
}

func (Question) VoteSets() VoteSets {
	return VoteSets{
		EntityTable: "questions",
		OwnerColumn: "question_id",
		UpTable:     "question_upvoters",
		DownTable:   "question_downvoters",
	}
}
