package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is owned by a single user. LikesCount is a denormalized copy of the
// number of Like rows for the post and is only ever changed in the same
// transaction that inserts or deletes one of those rows.
type Post struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string    `json:"title" gorm:"size:200;not null"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	AuthorID   uuid.UUID `json:"authorId" gorm:"type:uuid;not null;index"`
	Author     *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	LikesCount int       `json:"likesCount" gorm:"not null;default:0;check:likes_count >= 0"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Like records that a user liked a post. The composite primary key is what
// enforces at most one like per user per post.
type Like struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;primaryKey;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeResult struct {
	PostID     uuid.UUID `json:"id"`
	LikesCount int       `json:"likesCount"`
	Liked      bool      `json:"liked"`
}
