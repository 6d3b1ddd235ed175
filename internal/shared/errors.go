package shared

import "errors"

var (
	// ErrUnauthenticated indicates a missing, invalid or expired session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized indicates a valid session lacking a required permission.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates a name collision after normalization.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidPermission indicates a permission id outside the catalog.
	ErrInvalidPermission = errors.New("invalid permission")
	// ErrImmutable indicates a mutation attempted on a protected system role.
	ErrImmutable = errors.New("immutable role")
	// ErrStorageUnavailable indicates a transient storage failure; callers should retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
