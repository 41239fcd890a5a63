package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ExamSubmissionServiceName is the fully qualified RPC service name.
const ExamSubmissionServiceName = "lms.marks.v1.ExamSubmissionService"

// Full method names, as seen by interceptors.
const (
	MethodUpdateExamSubmissionMarks = "/" + ExamSubmissionServiceName + "/UpdateExamSubmissionMarks"
	MethodResetExamSubmissionMarks  = "/" + ExamSubmissionServiceName + "/ResetExamSubmissionMarks"
)

// ExamSubmissionServer is the server API for the mark management service.
// Requests and responses are google.protobuf.Struct messages:
//
//	UpdateExamSubmissionMarks {examSubmissionMarks: [{id, marks}]} -> {success, message}
//	ResetExamSubmissionMarks  {submissionIds: [id]}                 -> {success, message}
type ExamSubmissionServer interface {
	UpdateExamSubmissionMarks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ResetExamSubmissionMarks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterExamSubmissionServer registers srv on s.
func RegisterExamSubmissionServer(s grpc.ServiceRegistrar, srv ExamSubmissionServer) {
	s.RegisterService(&examSubmissionServiceDesc, srv)
}

func unaryHandler(method string, call func(ExamSubmissionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ExamSubmissionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ExamSubmissionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var examSubmissionServiceDesc = grpc.ServiceDesc{
	ServiceName: ExamSubmissionServiceName,
	HandlerType: (*ExamSubmissionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "UpdateExamSubmissionMarks",
			Handler: unaryHandler(MethodUpdateExamSubmissionMarks, func(s ExamSubmissionServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.UpdateExamSubmissionMarks(ctx, in)
			}),
		},
		{
			MethodName: "ResetExamSubmissionMarks",
			Handler: unaryHandler(MethodResetExamSubmissionMarks, func(s ExamSubmissionServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ResetExamSubmissionMarks(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lms/marks/v1/exam_submission.proto",
}
