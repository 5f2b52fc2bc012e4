package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository/postgres"
	"github.com/dom/postgram/internal/service"
	"github.com/dom/postgram/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.Like, testutil.TestLogger())
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.PostInput
		wantErr error
	}{
		{
			name:  "successful creation",
			input: service.PostInput{Title: "Hello", Body: "First post"},
		},
		{
			name:  "trims whitespace",
			input: service.PostInput{Title: "  Padded  ", Body: "\n body \n"},
		},
		{
			name:    "empty title",
			input:   service.PostInput{Title: "   ", Body: "body"},
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "title too long",
			input:   service.PostInput{Title: strings.Repeat("a", 201), Body: "body"},
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "empty body",
			input:   service.PostInput{Title: "title", Body: ""},
			wantErr: domain.ErrEmptyBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := postService.Create(ctx, author.ID, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.input.Title), post.Title)
			assert.Equal(t, strings.TrimSpace(tt.input.Body), post.Body)
			assert.Equal(t, author.ID, post.AuthorID)
			assert.Equal(t, 0, post.LikesCount)
			require.NotNil(t, post.Author)
			assert.Equal(t, author.Email, post.Author.Email)
		})
	}
}

func TestPostService_ListMarksViewerLikes(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.Like, testutil.TestLogger())
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	viewer, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	older := testutil.NewPostBuilder(author).WithTitle("older").Build(t, testDB.DB)
	newer := testutil.NewPostBuilder(author).WithTitle("newer").Build(t, testDB.DB)

	_, err := repos.Like.Toggle(ctx, older.ID, viewer.ID)
	require.NoError(t, err)

	t.Run("anonymous viewer", func(t *testing.T) {
		views, err := postService.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, newer.ID, views[0].ID, "newest post first")
		for _, v := range views {
			assert.False(t, v.Liked)
		}
	})

	t.Run("signed in viewer", func(t *testing.T) {
		views, err := postService.List(ctx, &viewer.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)

		liked := map[uuid.UUID]bool{}
		for _, v := range views {
			liked[v.ID] = v.Liked
		}
		assert.True(t, liked[older.ID])
		assert.False(t, liked[newer.ID])
		assert.Equal(t, 1, views[1].LikesCount)
	})
}

func TestPostService_UpdateAndDeleteOwnership(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.Like, testutil.TestLogger())
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author).Build(t, testDB.DB)

	t.Run("non owner cannot update", func(t *testing.T) {
		_, err := postService.Update(ctx, post.ID, other.ID, service.PostInput{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("owner updates", func(t *testing.T) {
		updated, err := postService.Update(ctx, post.ID, author.ID, service.PostInput{Title: "New title", Body: "New body"})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "New body", updated.Body)
	})

	t.Run("update missing post", func(t *testing.T) {
		_, err := postService.Update(ctx, uuid.New(), author.ID, service.PostInput{Title: "x", Body: "y"})
		assert.ErrorIs(t, err, domain.ErrPostNotFound)
	})

	t.Run("non owner cannot delete", func(t *testing.T) {
		err := postService.Delete(ctx, post.ID, other.ID)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("owner deletes with likes and comments", func(t *testing.T) {
		_, err := repos.Like.Toggle(ctx, post.ID, other.ID)
		require.NoError(t, err)
		root := testutil.NewCommentBuilder(post, other).Build(t, testDB.DB)
		testutil.NewCommentBuilder(post, author).BuildChain(t, testDB.DB, root, 3)

		require.NoError(t, postService.Delete(ctx, post.ID, author.ID))

		_, err = postService.Get(ctx, post.ID)
		assert.ErrorIs(t, err, domain.ErrPostNotFound)
		assert.Zero(t, testDB.Count(t, "likes", "post_id = ?", post.ID))
		assert.Zero(t, testDB.Count(t, "comments", "post_id = ?", post.ID))
	})
}
