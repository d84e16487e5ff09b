package rpc

import (
	"errors"

	"github.com/airvent/subscription/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code returns the gRPC status code for a domain error.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, common.ErrAlreadyPremium), errors.Is(err, common.ErrNotPremium):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrUnauthorized):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrInvalidPointsAmount), errors.Is(err, common.ErrInvalidHardwareSerial):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrPointsOverflow):
		return codes.OutOfRange
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrInvalidProof), errors.Is(err, common.ErrProofReplayed):
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// ToStatus converts a domain error to a gRPC status error carrying an
// ErrorInfo detail with the stable reason code. Errors without a reason
// code are reported as a bare Internal so storage details do not leak.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	reason := common.Reason(err)
	if reason == "" {
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}

	code := Code(err)
	if code == codes.Internal {
		// AddressMismatch and friends: keep the reason, drop the detail text.
		st, derr := status.New(code, common.ErrorInternal.Error()).
			WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: common.ErrorDomain})
		if derr != nil {
			return status.Error(codes.Internal, common.ErrorInternal.Error())
		}
		return st.Err()
	}

	st, derr := status.New(code, err.Error()).
		WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: common.ErrorDomain})
	if derr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

// Error is a failed call as seen by a client. It unwraps to the domain
// sentinel named by the server, so callers match it with errors.Is.
type Error struct {
	Code    codes.Code
	Reason  string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// FromStatus is the client-side inverse of ToStatus. Errors that are not
// gRPC statuses, or that carry no known reason, are returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != common.ErrorDomain {
			continue
		}
		if cause := common.FromReason(info.GetReason()); cause != nil {
			return &Error{Code: st.Code(), Reason: info.GetReason(), Message: st.Message(), cause: cause}
		}
	}
	return err
}
