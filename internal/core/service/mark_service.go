package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-platform/internal/core/authz"
	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// MarkingRequirement gates every mark management operation.
var MarkingRequirement = authz.AnyRole(domain.RoleInstructor, domain.RoleAdmin)

type markService struct {
	submissions ports.SubmissionRepository
	tx          ports.TxRunner
	log         zerolog.Logger
}

// NewMarkService returns a MarkService implementation.
func NewMarkService(submissions ports.SubmissionRepository, tx ports.TxRunner, log zerolog.Logger) ports.MarkService {
	return &markService{submissions: submissions, tx: tx, log: log}
}

// UpdateMarks validates every entry before writing any of them.
func (s *markService) UpdateMarks(ctx context.Context, caller *domain.Principal, marks []domain.SubmissionMark) error {
	if err := authz.Authorize(caller, MarkingRequirement); err != nil {
		return err
	}
	if len(marks) == 0 {
		return fmt.Errorf("update marks: %w", domain.ErrInvalidInput)
	}
	for _, m := range marks {
		if !m.Valid() {
			return fmt.Errorf("update marks: submission %d: %w", m.SubmissionID, domain.ErrInvalidMarks)
		}
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, m := range marks {
			if err := s.submissions.UpdateMarks(ctx, m.SubmissionID, m.Marks); err != nil {
				return fmt.Errorf("submission %d: %w", m.SubmissionID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update marks: %w", err)
	}
	s.log.Info().Int("count", len(marks)).Str("by", caller.Subject).Msg("marks updated")
	return nil
}

func (s *markService) ResetMarks(ctx context.Context, caller *domain.Principal, submissionIDs []int64) error {
	if err := authz.Authorize(caller, MarkingRequirement); err != nil {
		return err
	}
	if len(submissionIDs) == 0 {
		return fmt.Errorf("reset marks: %w", domain.ErrInvalidInput)
	}
	n, err := s.submissions.ResetMarks(ctx, submissionIDs)
	if err != nil {
		return fmt.Errorf("reset marks: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reset marks: %w", domain.ErrSubmissionNotFound)
	}
	s.log.Info().Int64("count", n).Str("by", caller.Subject).Msg("marks reset")
	return nil
}
