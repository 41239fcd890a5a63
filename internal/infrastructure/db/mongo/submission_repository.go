package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// SubmissionRepository implements ports.SubmissionRepository using MongoDB.
// Submissions are owned by the exam module; only their marks are written here.
type SubmissionRepository struct {
	col *mongo.Collection
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(db *mongo.Database) ports.SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(collectionSubmissions)}
}

func (r *SubmissionRepository) UpdateMarks(ctx context.Context, submissionID int64, marks float64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": submissionID},
		bson.M{"$set": bson.M{"marks": marks, "graded_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update marks: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *SubmissionRepository) ResetMarks(ctx context.Context, submissionIDs []int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": submissionIDs}},
		bson.M{"$unset": bson.M{"marks": "", "graded_at": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("reset marks: %w", err)
	}
	return res.MatchedCount, nil
}
