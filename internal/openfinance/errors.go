package openfinance

import "fmt"

// AuthError means the credential exchange itself failed. It is not retried
// within a cycle; it surfaces to the first caller that needed a token.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("open finance auth failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError is a transient network or HTTP failure during a list/paginate
// call. Callers skip the cycle and retry on the next interval.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("open finance %s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ShapeError marks a single upstream record that could not be decoded or was
// missing a required field. The record is skipped and the batch continues.
type ShapeError struct {
	Entity string
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Entity, e.Detail)
}
