package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/postgram/internal/domain"
	"github.com/dom/postgram/internal/repository/postgres"
	"github.com/dom/postgram/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateForeignKeys(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCommentRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author).Build(t, testDB.DB)
	missing := uuid.New()

	tests := []struct {
		name    string
		comment *domain.Comment
		wantErr error
	}{
		{
			name:    "top level",
			comment: &domain.Comment{ID: uuid.New(), Body: "hi", PostID: post.ID, AuthorID: author.ID},
		},
		{
			name:    "unknown post",
			comment: &domain.Comment{ID: uuid.New(), Body: "hi", PostID: uuid.New(), AuthorID: author.ID},
			wantErr: domain.ErrPostNotFound,
		},
		{
			name:    "unknown parent",
			comment: &domain.Comment{ID: uuid.New(), Body: "hi", PostID: post.ID, AuthorID: author.ID, ParentID: &missing},
			wantErr: domain.ErrParentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.comment)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := repo.GetByID(ctx, tt.comment.ID)
			require.NoError(t, err)
			assert.Equal(t, author.Email, got.Author.Email)
		})
	}
}

func TestCommentRepository_DeleteSubtree(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCommentRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author).Build(t, testDB.DB)

	tests := []struct {
		name    string
		depth   int
		wantDel int64
	}{
		{name: "leaf", depth: 0, wantDel: 1},
		{name: "one reply", depth: 1, wantDel: 2},
		{name: "deep chain", depth: 25, wantDel: 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.NewCommentBuilder(post, author).Build(t, testDB.DB)
			testutil.NewCommentBuilder(post, author).BuildChain(t, testDB.DB, root, tt.depth)
			before := testDB.Count(t, "comments", "")

			deleted, err := repo.DeleteSubtree(ctx, root.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDel, deleted)
			assert.Equal(t, before-tt.wantDel, testDB.Count(t, "comments", ""))
		})
	}

	t.Run("missing comment", func(t *testing.T) {
		_, err := repo.DeleteSubtree(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})
}

func TestCommentRepository_ReplyRacingDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCommentRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author).Build(t, testDB.DB)
	root := testutil.NewCommentBuilder(post, author).Build(t, testDB.DB)
	chain := testutil.NewCommentBuilder(post, author).BuildChain(t, testDB.DB, root, 5)
	leaf := chain[len(chain)-1]

	var wg sync.WaitGroup
	var replyErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := repo.DeleteSubtree(ctx, root.ID)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		replyErr = repo.Create(ctx, &domain.Comment{
			ID: uuid.New(), Body: "late", PostID: post.ID, AuthorID: author.ID, ParentID: &leaf.ID,
		})
	}()
	wg.Wait()

	// Either the reply landed first and was swept up, or it was rejected.
	if replyErr != nil {
		assert.ErrorIs(t, replyErr, domain.ErrParentNotFound)
	}
	assert.Zero(t, testDB.Count(t, "comments", "post_id = ?", post.ID))
}
