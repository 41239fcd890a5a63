package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// MarksHandler adapts ports.MarkService to the RPC surface. Business
// failures are reported in the response body with success=false.
type MarksHandler struct {
	marks ports.MarkService
	log   zerolog.Logger
}

// NewMarksHandler creates a MarksHandler.
func NewMarksHandler(marks ports.MarkService, log zerolog.Logger) *MarksHandler {
	return &MarksHandler{marks: marks, log: log}
}

func (h *MarksHandler) UpdateExamSubmissionMarks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, _ := domain.PrincipalFrom(ctx)

	marks, err := parseSubmissionMarks(in)
	if err != nil {
		return reply(false, err.Error())
	}
	if err := h.marks.UpdateMarks(ctx, caller, marks); err != nil {
		return h.fail(err)
	}
	return reply(true, "Exam submission marks updated successfully")
}

func (h *MarksHandler) ResetExamSubmissionMarks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, _ := domain.PrincipalFrom(ctx)

	ids, err := parseSubmissionIDs(in)
	if err != nil {
		return reply(false, err.Error())
	}
	if err := h.marks.ResetMarks(ctx, caller, ids); err != nil {
		return h.fail(err)
	}
	return reply(true, "Exam submission marks reset successfully")
}

func (h *MarksHandler) fail(err error) (*structpb.Struct, error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, domain.ErrForbidden):
		return nil, status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, domain.ErrInvalidMarks),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrSubmissionNotFound):
		return reply(false, err.Error())
	default:
		h.log.Error().Err(err).Msg("mark management failed")
		return nil, status.Error(codes.Internal, "internal error")
	}
}

func reply(success bool, message string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"success": success,
		"message": message,
	})
}

func parseSubmissionMarks(in *structpb.Struct) ([]domain.SubmissionMark, error) {
	list := in.GetFields()["examSubmissionMarks"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("examSubmissionMarks is required: %w", domain.ErrInvalidInput)
	}
	out := make([]domain.SubmissionMark, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		id, err := integer(fields["id"])
		if err != nil {
			return nil, fmt.Errorf("examSubmissionMarks[%d].id: %w", i, err)
		}
		marksValue, ok := fields["marks"].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("examSubmissionMarks[%d].marks: %w", i, domain.ErrInvalidInput)
		}
		out = append(out, domain.SubmissionMark{SubmissionID: id, Marks: marksValue.NumberValue})
	}
	return out, nil
}

func parseSubmissionIDs(in *structpb.Struct) ([]int64, error) {
	list := in.GetFields()["submissionIds"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("submissionIds is required: %w", domain.ErrInvalidInput)
	}
	out := make([]int64, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		id, err := integer(v)
		if err != nil {
			return nil, fmt.Errorf("submissionIds[%d]: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func integer(v *structpb.Value) (int64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return int64(n.NumberValue), nil
}
