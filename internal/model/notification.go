package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAnswer  = "answer"
	NotificationComment = "comment"
	NotificationMention = "mention"
	NotificationAccept  = "accept"
)

// Notification rows are written only by the dispatcher; the recipient can
// flip is_read and nothing else.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"recipient,omitempty"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	Sender      *User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	QuestionID  *uuid.UUID `gorm:"type:uuid" json:"question_id,omitempty"`
	AnswerID    *uuid.UUID `gorm:"type:uuid" json:"answer_id,omitempty"`
	CommentID   *uuid.UUID `gorm:"type:uuid" json:"comment_id,omitempty"`
	Message     string     `gorm:"type:text" json:"message"`
	IsRead      bool       `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
