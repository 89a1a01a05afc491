package registry

import (
	"errors"
	"fmt"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeInvalidArgument indicates a nil identifier, instance or factory
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeInvalidServiceInstance indicates an instance that does not satisfy its identifier
	CodeInvalidServiceInstance = "INVALID_SERVICE_INSTANCE"

	// CodeServiceAlreadyExists indicates a service is already registered locally
	CodeServiceAlreadyExists = "SERVICE_ALREADY_EXISTS"

	// CodeServiceNotFound indicates no registry in the chain provides a service
	CodeServiceNotFound = "SERVICE_NOT_FOUND"

	// CodeRegistryDisposed indicates a registration on a disposed registry
	CodeRegistryDisposed = "REGISTRY_DISPOSED"

	// CodeDisposeFailed indicates one or more services failed to dispose
	CodeDisposeFailed = "DISPOSE_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// Sentinels match any error carrying the same code under errors.Is.
var (
	ErrInvalidArgumentSentinel        = &errs.Error{Code: CodeInvalidArgument}
	ErrInvalidServiceInstanceSentinel = &errs.Error{Code: CodeInvalidServiceInstance}
	ErrServiceAlreadyExistsSentinel   = &errs.Error{Code: CodeServiceAlreadyExists}
	ErrServiceNotFoundSentinel        = &errs.Error{Code: CodeServiceNotFound}
	ErrDisposeFailedSentinel          = &errs.Error{Code: CodeDisposeFailed}
)

// ErrRegistryDisposed is returned when a service is added to a disposed registry.
var ErrRegistryDisposed = errs.NewError(CodeRegistryDisposed, "registry has been disposed", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrInvalidArgument creates an error for a required argument that was nil.
func ErrInvalidArgument(argument string) *errs.Error {
	return errs.NewError(
		CodeInvalidArgument,
		fmt.Sprintf("argument '%s' cannot be nil", argument),
		nil,
	)
}

// ErrInvalidServiceInstance creates an error for an instance that is not of the identifier's type.
func ErrInvalidServiceInstance(id ServiceID, instance any) *errs.Error {
	return errs.NewError(
		CodeInvalidServiceInstance,
		fmt.Sprintf("instance of type %T is not a valid '%s' service", instance, id),
		nil,
	)
}

// ErrServiceAlreadyExists creates an error for a duplicate local registration.
func ErrServiceAlreadyExists(id ServiceID) *errs.Error {
	return errs.NewError(
		CodeServiceAlreadyExists,
		fmt.Sprintf("service '%s' already exists", id),
		nil,
	)
}

// ErrServiceNotFound creates an error for a service no registry in the chain provides.
func ErrServiceNotFound(id ServiceID) *errs.Error {
	return errs.NewError(
		CodeServiceNotFound,
		fmt.Sprintf("service '%s' not found", id),
		nil,
	)
}

// ErrDisposeFailed wraps the combined disposal errors of a registry.
func ErrDisposeFailed(cause error) *errs.Error {
	return errs.NewError(CodeDisposeFailed, "failed to dispose services", cause)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInvalidArgument checks if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgumentSentinel)
}

// IsInvalidServiceInstance checks if the error is an invalid service instance error.
func IsInvalidServiceInstance(err error) bool {
	return errors.Is(err, ErrInvalidServiceInstanceSentinel)
}

// IsServiceAlreadyExists checks if the error is a service already exists error.
func IsServiceAlreadyExists(err error) bool {
	return errors.Is(err, ErrServiceAlreadyExistsSentinel)
}

// IsServiceNotFound checks if the error is a service not found error.
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFoundSentinel)
}
