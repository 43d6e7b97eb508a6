package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   Question  `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author     User      `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Accepted   bool      `gorm:"default:false" json:"accepted"`
	Comments   []Comment `gorm:"foreignKey:AnswerID" json:"comments,omitempty"`

	Upvoters   []User `gorm:"many2many:answer_upvoters;constraint:OnDelete:CASCADE" json:"-"`
	Downvoters []User `gorm:"many2many:answer_downvoters;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// BeforeSave enforces the single-accepted-answer invariant on the write
// path itself: saving an accepted answer unaccepts every sibling in the
// same transaction, so the invariant holds even for writes that bypass
// the service layer.
func (a *Answer) BeforeSave(tx *gorm.DB) error {
	if !a.Accepted {
		return nil
	}
	return tx.Model(&Answer{}).
		Where("question_id = ? AND id <> ? AND accepted = ?", a.QuestionID, a.ID, true).
		UpdateColumn("accepted", false).Error
}

func (Answer) VoteSets() VoteSets {
	return VoteSets{
		EntityTable: "answers",
		OwnerColumn: "answer_id",
		UpTable:     "answer_upvoters",
		DownTable:   "answer_downvoters",
	}
}
