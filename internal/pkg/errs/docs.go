// Package errs provides standardized error types for the food order application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For business-rule conflicts that reject a request
//   - UnauthorizedError: For callers acting on objects they do not own
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The sentinel hierarchy carries the service's error taxonomy end to end:
// validation failures, missing objects, business conflicts, and authorization
// failures stay machine-distinguishable from infrastructure errors all the way
// to the transport layer.
package errs
