package postgres

import (
	"context"

	"github.com/dom/postgram/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db: db}
}

// Toggle never reads the like row before writing it. The delete and the
// conflict-ignoring insert each report through RowsAffected whether they
// changed the like set, and the counter moves by exactly that amount in
// the same transaction. Two racing toggles by the same user therefore
// cannot both bump the counter.
func (r *likeRepository) Toggle(ctx context.Context, postID, userID uuid.UUID) (*domain.LikeResult, error) {
	result := &domain.LikeResult{PostID: postID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		delta := 0

		removed := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&domain.Like{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			delta = -1
			result.Liked = false
		} else {
			inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Omit(clause.Associations).
				Create(&domain.Like{UserID: userID, PostID: postID})
			if inserted.Error != nil {
				if isForeignKeyViolation(inserted.Error) {
					return domain.ErrNotFound
				}
				return inserted.Error
			}
			if inserted.RowsAffected > 0 {
				delta = 1
			}
			result.Liked = true
		}

		var counts []int
		updated := tx.Raw(
			"UPDATE posts SET likes_count = GREATEST(likes_count + ?, 0) WHERE id = ? RETURNING likes_count",
			delta, postID,
		).Scan(&counts)
		if updated.Error != nil {
			return updated.Error
		}
		if len(counts) == 0 {
			return domain.ErrPostNotFound
		}
		result.LikesCount = counts[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepository) ListLikedPosts(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
