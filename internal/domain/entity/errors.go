package entity

import "fmt"

// ConnectionError covers wallet connection failures: extension missing,
// permission denied, conflicting extension. Never fatal; the app stays
// usable in a disconnected state.
type ConnectionError struct {
	Reason      string
	Remediation string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("wallet connection failed: %s", e.Reason)
}

// ValidationError reports malformed input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NetworkError wraps a failed or timed-out RPC/Horizon call. It is handled
// at the fetch or mutation boundary and never propagates past it.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StorageError reports a failed local store write. Corrupted reads never
// produce a StorageError; they degrade to absence instead.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for key %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SigningError reports a sign request made without an active session or a
// signer that refused the request.
type SigningError struct {
	Reason string
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %s", e.Reason)
}
