package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a node in a post's reply tree. ParentID is nil for top level
// comments. A parent must exist when the reply is created, so the tree can
// never contain a cycle.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	PostID    uuid.UUID  `json:"postId" gorm:"type:uuid;not null;index"`
	Post      *Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	AuthorID  uuid.UUID  `json:"authorId" gorm:"type:uuid;not null;index"`
	Author    *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	ParentID  *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`
	Parent    *Comment   `json:"-" gorm:"foreignKey:ParentID"`
	CreatedAt time.Time  `json:"createdAt" gorm:"index"`

	// Replies is filled in when a tree is assembled; it is not a column.
	Replies []*Comment `json:"replies" gorm:"-"`
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
