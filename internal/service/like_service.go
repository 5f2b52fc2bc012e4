package service

import (
	"context"

	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LikeService is the like ledger: it owns the Like set and the
// denormalized likes_count that mirrors its size.
type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	log      zerolog.Logger
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, log zerolog.Logger) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		userRepo: userRepo,
		log:      log.With().Str("component", "likes").Logger(),
	}
}

// Toggle likes the post for the user, or removes the like if one exists.
func (s *LikeService) Toggle(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	result, err := s.likeRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("post_id", postID.String()).
		Str("user_id", userID.String()).
		Bool("liked", result.Liked).
		Int("likes_count", result.LikesCount).
		Msg("like toggled")
	return result, nil
}

// ListLikedPosts returns the posts userID liked. Liked on each view is
// reported for viewerID, who may be someone else or nobody.
func (s *LikeService) ListLikedPosts(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID) ([]*PostView, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.likeRepo.ListLikedPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	liked := map[uuid.UUID]bool{}
	switch {
	case viewerID == nil || len(posts) == 0:
	case *viewerID == userID:
		for _, p := range posts {
			liked[p.ID] = true
		}
	default:
		ids := make([]uuid.UUID, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		if liked, err = s.likeRepo.LikedPostIDs(ctx, *viewerID, ids); err != nil {
			return nil, err
		}
	}

	views := make([]*PostView, len(posts))
	for i, p := range posts {
		views[i] = &PostView{Post: p, Liked: liked[p.ID]}
	}
	return views, nil
}
