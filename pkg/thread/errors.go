package thread

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when an action targets a comment id that is
	// not present in the current generation.
	ErrNotFound = errors.New("comment not found")

	// ErrBusy is returned while a mutation for the same comment is still in
	// flight. It is the engine-side view of the disabled-controls
	// affordance: advisory serialization per node, not a hard lock.
	ErrBusy = errors.New("comment action already in flight")

	// ErrNotLoaded is returned when an action arrives before any load has
	// completed for the post.
	ErrNotLoaded = errors.New("comments not loaded")
)

// ValidationError flags malformed caller input (bad id, bad vote direction,
// empty edit). No upstream call is issued.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// AuthorizationError flags an edit/delete attempted on another user's
// comment. Checked locally, before any upstream call.
type AuthorizationError struct {
	CommentID int64
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not the author of comment %d", e.CommentID)
}

// Category is the best-effort classification of an upstream rejection,
// derived from the error text for user display.
type Category string

const (
	CategoryRateLimited  Category = "rate_limited"
	CategoryUnauthorized Category = "unauthorized"
	CategoryNotFound     Category = "not_found"
	CategoryUnknown      Category = "unknown"
)

// RejectionError wraps an upstream failure. The targeted node is guaranteed
// untouched when one of these is returned.
type RejectionError struct {
	Category Category
	Err      error
}

func (e *RejectionError) Error() string {
	return string(e.Category) + ": " + e.Err.Error()
}

func (e *RejectionError) Unwrap() error { return e.Err }

// Categorize maps upstream error text onto a Category. Lemmy-style error
// tokens are matched by substring; anything unrecognized is CategoryUnknown.
func Categorize(msg string) Category {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "rate_limit"), strings.Contains(m, "too many requests"):
		return CategoryRateLimited
	case strings.Contains(m, "not_logged_in"), strings.Contains(m, "not_an_admin"),
		strings.Contains(m, "only_mods"), strings.Contains(m, "unauthorized"),
		strings.Contains(m, "no_comment_edit_allowed"):
		return CategoryUnauthorized
	case strings.Contains(m, "couldnt_find"), strings.Contains(m, "not found"):
		return CategoryNotFound
	default:
		return CategoryUnknown
	}
}

// reject wraps an upstream error into a categorized RejectionError.
func reject(err error) error {
	return &RejectionError{Category: Categorize(err.Error()), Err: err}
}
