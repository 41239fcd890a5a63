package ports

import (
	"context"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// SubmissionRepository persists exam submission marks.
type SubmissionRepository interface {
	// UpdateMarks returns domain.ErrSubmissionNotFound for an unknown id.
	UpdateMarks(ctx context.Context, submissionID int64, marks float64) error
	// ResetMarks clears marks on the given submissions and returns how many matched.
	ResetMarks(ctx context.Context, submissionIDs []int64) (int64, error)
}

// MarkService is consumed by the RPC transport.
type MarkService interface {
	UpdateMarks(ctx context.Context, caller *domain.Principal, marks []domain.SubmissionMark) error
	ResetMarks(ctx context.Context, caller *domain.Principal, submissionIDs []int64) error
}
