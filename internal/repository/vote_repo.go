package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stackit.dev/forum/internal/model"
	"stackit.dev/forum/pkg/apperror"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// VoteRepository is the one toggle implementation shared by every votable
// entity. A user is a member of at most one of the two sets; each Toggle
// runs inside a single transaction so the exclusivity invariant cannot be
// observed broken.
type VoteRepository interface {
	// Toggle flips the user's membership in the direction set. It reports
	// whether the vote was added (true) or removed (false).
	Toggle(ctx context.Context, v model.Votable, entityID, userID uuid.UUID, dir Direction) (bool, error)
	// Count returns the derived vote count: |upvoters| - |downvoters|.
	Count(ctx context.Context, v model.Votable, entityID uuid.UUID) (int64, error)
	// UserVote returns "up", "down" or "" for the user's current membership.
	UserVote(ctx context.Context, v model.Votable, entityID, userID uuid.UUID) (string, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Toggle(ctx context.Context, v model.Votable, entityID, userID uuid.UUID, dir Direction) (bool, error) {
	sets := v.VoteSets()

	sameTable, otherTable := sets.UpTable, sets.DownTable
	if dir == DirectionDown {
		sameTable, otherTable = sets.DownTable, sets.UpTable
	}

	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Table(sets.EntityTable).Where("id = ?", entityID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return apperror.ErrNotFound
		}

		var member int64
		if err := tx.Table(sameTable).
			Where(sets.OwnerColumn+" = ? AND user_id = ?", entityID, userID).
			Count(&member).Error; err != nil {
			return err
		}

		if member > 0 {
			// Same direction again: un-vote.
			return tx.Exec(
				"DELETE FROM "+sameTable+" WHERE "+sets.OwnerColumn+" = ? AND user_id = ?",
				entityID, userID,
			).Error
		}

		// Leave the opposite set (if present) before joining this one.
		if err := tx.Exec(
			"DELETE FROM "+otherTable+" WHERE "+sets.OwnerColumn+" = ? AND user_id = ?",
			entityID, userID,
		).Error; err != nil {
			return err
		}

		if err := tx.Table(sameTable).Create(map[string]any{
			sets.OwnerColumn: entityID,
			"user_id":        userID,
		}).Error; err != nil {
			return err
		}

		added = true
		return nil
	})

	return added, err
}

func (r *voteRepository) Count(ctx context.Context, v model.Votable, entityID uuid.UUID) (int64, error) {
	sets := v.VoteSets()

	var up, down int64
	if err := r.db.WithContext(ctx).Table(sets.UpTable).
		Where(sets.OwnerColumn+" = ?", entityID).
		Count(&up).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Table(sets.DownTable).
		Where(sets.OwnerColumn+" = ?", entityID).
		Count(&down).Error; err != nil {
		return 0, err
	}

	return up - down, nil
}

func (r *voteRepository) UserVote(ctx context.Context, v model.Votable, entityID, userID uuid.UUID) (string, error) {
	sets := v.VoteSets()

	var member int64
	if err := r.db.WithContext(ctx).Table(sets.UpTable).
		Where(sets.OwnerColumn+" = ? AND user_id = ?", entityID, userID).
		Count(&member).Error; err != nil {
		return "", err
	}
	if member > 0 {
		return string(DirectionUp), nil
	}

	if err := r.db.WithContext(ctx).Table(sets.DownTable).
		Where(sets.OwnerColumn+" = ? AND user_id = ?", entityID, userID).
		Count(&member).Error; err != nil {
		return "", err
	}
	if member > 0 {
		return string(DirectionDown), nil
	}

	return "", nil
}
