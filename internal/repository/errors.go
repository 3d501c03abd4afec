// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across the
// repositories so handlers can map failure scenarios to responses with
// errors.Is instead of inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when an access token string has no
// persisted row, i.e. the session does not exist or was logged out.
var ErrTokenNotFound = errors.New("token not found")

// ErrBusinessNotFound is returned when a business cannot be found, or —
// for owner-scoped lookups — exists but belongs to someone else. The two
// cases are deliberately indistinguishable so responses do not leak
// whether a given id exists.
var ErrBusinessNotFound = errors.New("business not found")
