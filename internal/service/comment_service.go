package service

import (
	"context"
	"strings"
	"time"

	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CommentService manages a post's comment tree.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	log         zerolog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, log zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		log:         log.With().Str("component", "comments").Logger(),
	}
}

type CreateCommentInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	Body     string
	ParentID *uuid.UUID
}

// Create adds a top level comment, or a reply when ParentID is set. The
// parent has to be a comment on the same post.
func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, domain.ErrEmptyBody
	}

	if _, err := s.postRepo.GetByID(ctx, input.PostID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			if domain.Kind(err) == domain.ErrNotFound {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, domain.ErrParentNotFound
		}
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		Body:      body,
		PostID:    input.PostID,
		AuthorID:  input.AuthorID,
		ParentID:  input.ParentID,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	created.Replies = []*domain.Comment{}
	return created, nil
}

// ListTree returns the post's top level comments, each with its complete
// reply subtree attached.
func (s *CommentService) ListTree(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return domain.NewCommentTree(comments).Assemble(), nil
}

// Delete removes the comment and all of its replies. Only the comment's
// author may delete it. It returns the number of comments removed.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uuid.UUID) (*domain.Comment, int64, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, 0, err
	}
	if comment.AuthorID != userID {
		return nil, 0, domain.ErrNotOwner
	}

	deleted, err := s.commentRepo.DeleteSubtree(ctx, commentID)
	if err != nil {
		return nil, 0, err
	}

	s.log.Info().
		Str("comment_id", commentID.String()).
		Int64("deleted", deleted).
		Msg("comment subtree deleted")
	return comment, deleted, nil
}
