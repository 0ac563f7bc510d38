// Package errors provides structured errors for rpg-palette.
//
// Errors in this package are reserved for bad caller input and
// infrastructure failures. A host helper that throws, returns false or
// never answers is not an error here: the resolver and the dispatcher
// treat those as probe failures and move on to the next candidate.
//
// # Basic Usage
//
//	err := errors.NotFound("actor not found").WithMeta("actor_id", id)
//	err := errors.InvalidArgumentf("unknown attribute kind: %s", kind)
//
// Wrapping keeps the original code:
//
//	if err := repo.Update(ctx, log); err != nil {
//	    return errors.Wrap(err, "failed to append dispatch attempt")
//	}
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("actor_id", input.ActorID, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # gRPC
//
// Handlers return errors.ToGRPCError(err) so codes survive the transport.
package errors
