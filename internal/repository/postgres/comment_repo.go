package postgres

import (
	"context"
	"errors"

	"github.com/dom/postgram/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment. A parent that disappeared between the
// service's existence check and the insert surfaces as a foreign key
// violation and is reported as ErrParentNotFound.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
	if isForeignKeyViolation(err) {
		if comment.ParentID != nil {
			return domain.ErrParentNotFound
		}
		return domain.ErrPostNotFound
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByPostID returns every comment of the post, oldest first, with authors.
func (r *commentRepository) GetByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at, id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteSubtree locks the post's comments, builds the reply tree in memory
// and deletes it one depth level at a time, deepest first. The row locks
// make a concurrent reply to any node in the subtree wait for this
// transaction and then fail its foreign key check.
func (r *commentRepository) DeleteSubtree(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target domain.Comment
		if err := tx.Select("id", "post_id").First(&target, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCommentNotFound
			}
			return err
		}

		var thread []*domain.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "parent_id", "post_id").
			Where("post_id = ?", target.PostID).
			Find(&thread).Error
		if err != nil {
			return err
		}

		tree := domain.NewCommentTree(thread)
		for _, level := range tree.Levels(id) {
			result := tx.Where("id IN ?", level).Delete(&domain.Comment{})
			if result.Error != nil {
				return result.Error
			}
			deleted += result.RowsAffected
		}

		if deleted == 0 {
			return domain.ErrCommentNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
