package ledger

import (
	"fmt"
	"strings"
)

// ValidationError reports a game, character or stat name that is not
// accepted. Valid lists the acceptable values when the set is closed.
type ValidationError struct {
	Field string
	Value string
	Game  Game
	Valid []string
}

func (e *ValidationError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q, valid values are: %s", e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// NotFoundError means the user has no records at all, or none for Game
// when Game is set.
type NotFoundError struct {
	UserID string
	Game   Game
}

func (e *NotFoundError) Error() string {
	if e.Game == "" {
		return fmt.Sprintf("no recorded stats for user %s", e.UserID)
	}
	return fmt.Sprintf("no recorded %s stats for user %s", e.Game, e.UserID)
}

// EmptyResultError means a leaderboard query matched no user.
type EmptyResultError struct {
	Game      Game
	Character string
}

func (e *EmptyResultError) Error() string {
	if e.Character == "" {
		return fmt.Sprintf("no stats available for %s", e.Game)
	}
	return fmt.Sprintf("no stats available for %s in %s", e.Character, e.Game)
}

// CollaboratorError wraps a failure from the stat store or the identity
// resolver. It is surfaced as-is and never retried.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
