package errors

import (
	"google.golang.org/grpc/status"
)

// ToGRPCError converts an error to a gRPC status error. Status errors pass
// through untouched.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(GetCode(err).GRPCCode(), GetMessage(err))
}

// FromGRPCError converts a gRPC status error back into an Error. Errors
// that carry no status are returned as is.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return New(codeForGRPC(st.Code()), st.Message())
}
