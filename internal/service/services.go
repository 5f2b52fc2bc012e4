package service

import (
	"github.com/dom/postgram/internal/config"
	"github.com/dom/postgram/internal/repository"
	"github.com/rs/zerolog"
)

type Services struct {
	Tokens  *TokenService
	Auth    *AuthService
	Post    *PostService
	Comment *CommentService
	Like    *LikeService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	tokens := NewTokenService(cfg)

	return &Services{
		Tokens:  tokens,
		Auth:    NewAuthService(repos.User, tokens, cfg, log),
		Post:    NewPostService(repos.Post, repos.Like, log),
		Comment: NewCommentService(repos.Comment, repos.Post, log),
		Like:    NewLikeService(repos.Like, repos.Post, repos.User, log),
	}
}
