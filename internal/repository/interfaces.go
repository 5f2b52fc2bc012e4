package repository

import (
	"context"

	"github.com/dom/postgram/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post together with its likes and comments.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	// DeleteSubtree removes the comment and every reply beneath it in one
	// transaction and reports how many rows were removed.
	DeleteSubtree(ctx context.Context, id uuid.UUID) (int64, error)
}

type LikeRepository interface {
	// Toggle removes the user's like if it exists and adds it otherwise,
	// keeping posts.likes_count in step within the same transaction.
	Toggle(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListLikedPosts(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)
}

type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
	Like    LikeRepository
}
