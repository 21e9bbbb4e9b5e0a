// Package errs provides standardized error types for the porterage service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers validation failures and the four lifecycle failure kinds
// reported by the dispatch engine:
//   - ObjectNotFoundError: an unknown request id
//   - InvalidTransitionError: a status precondition that does not hold
//   - UnauthorizedError: an actor not permitted for the action
//   - AlreadyFinishedError: an operation on a Finished request
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies it;
//     InvalidTransitionError and UnauthorizedError also expose their cause
//
// All kinds are recoverable: callers translate them into a user-facing message,
// and the engine state is left unchanged when one is returned.
package errs
