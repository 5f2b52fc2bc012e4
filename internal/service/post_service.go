package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxTitleLength = 200

type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	log      zerolog.Logger
}

func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, log zerolog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		log:      log.With().Str("component", "posts").Logger(),
	}
}

type PostInput struct {
	Title string
	Body  string
}

func (in PostInput) normalize() (PostInput, error) {
	out := PostInput{
		Title: strings.TrimSpace(in.Title),
		Body:  strings.TrimSpace(in.Body),
	}
	if out.Title == "" || utf8.RuneCountInString(out.Title) > maxTitleLength {
		return out, domain.ErrEmptyTitle
	}
	if out.Body == "" {
		return out, domain.ErrEmptyBody
	}
	return out, nil
}

// PostView is a post as seen by one viewer.
type PostView struct {
	*domain.Post
	Liked bool
}

// List returns every post, newest first. When viewerID is set each post
// reports whether that user has liked it.
func (s *PostService) List(ctx context.Context, viewerID *uuid.UUID) ([]*PostView, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != nil && len(posts) > 0 {
		ids := make([]uuid.UUID, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		liked, err = s.likeRepo.LikedPostIDs(ctx, *viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*PostView, len(posts))
	for i, p := range posts {
		views[i] = &PostView{Post: p, Liked: liked[p.ID]}
	}
	return views, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*domain.Post, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		ID:        uuid.New(),
		Title:     input.Title,
		Body:      input.Body,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID.String()).Str("author_id", authorID.String()).Msg("post created")
	return s.postRepo.GetByID(ctx, post.ID)
}

// Update changes title and body. Only the author may edit a post.
func (s *PostService) Update(ctx context.Context, postID, userID uuid.UUID, input PostInput) (*domain.Post, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrNotOwner
	}

	post.Title = input.Title
	post.Body = input.Body
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

// Delete removes a post with its likes and comments. Only the author may
// delete a post.
func (s *PostService) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return domain.ErrNotOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.log.Info().Str("post_id", postID.String()).Msg("post deleted")
	return nil
}
