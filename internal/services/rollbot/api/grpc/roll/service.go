// Package roll exposes the dice roller as a gRPC service.
//
// The service uses protobuf well-known wrapper messages so it needs no
// generated stubs: Roll takes the chat text as a StringValue and answers
// with the response text as a StringValue.
package roll

import (
	"context"
	"strconv"
	"unicode/utf8"

	apperrors "github.com/louisbranch/rollbot/internal/platform/errors"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "rollbot.v1.RollService"
	// RollMethod is the full method path for Roll.
	RollMethod = "/" + ServiceName + "/Roll"

	// MaxTextRunes bounds the request text, matching chat message limits.
	MaxTextRunes = 2000
)

// RollServiceServer is the server API for the roll service.
type RollServiceServer interface {
	Roll(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

var rollServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Roll",
			Handler:    rollHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterRollServiceServer registers srv on the gRPC registrar.
func RegisterRollServiceServer(registrar grpc.ServiceRegistrar, srv RollServiceServer) {
	registrar.RegisterService(&rollServiceDesc, srv)
}

func rollHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RollServiceServer).Roll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RollMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RollServiceServer).Roll(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Service implements RollServiceServer on top of the traced roller.
type Service struct {
	rolls *rolls.Service
}

// NewService creates the roll gRPC service.
func NewService(rollService *rolls.Service) *Service {
	return &Service{rolls: rollService}
}

// Roll evaluates the request text and returns the chat response.
func (s *Service) Roll(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if in == nil {
		return nil, apperrors.New(apperrors.CodeRollRequestMissing, "roll request is required")
	}
	if utf8.RuneCountInString(in.GetValue()) > MaxTextRunes {
		return nil, apperrors.WithMetadata(apperrors.CodeRollTextTooLong, "roll text is too long",
			map[string]string{"max_runes": strconv.Itoa(MaxTextRunes)})
	}
	if s.rolls == nil {
		return nil, apperrors.New(apperrors.CodeRollerUnavailable, "roll service is not configured")
	}

	result, err := s.rolls.Roll(ctx, in.GetValue())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSeedUnavailable, "failed to roll dice", err)
	}
	return wrapperspb.String(result.Text), nil
}

// RollServiceClient calls the roll service over a client connection.
type RollServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRollServiceClient creates a client for the roll service.
func NewRollServiceClient(cc grpc.ClientConnInterface) *RollServiceClient {
	return &RollServiceClient{cc: cc}
}

// Roll sends text to the roll service and returns the response text.
func (c *RollServiceClient) Roll(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, RollMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
