package game

import "context"

// Store persists user game records keyed by Slack member ID.
type Store interface {
	// Get loads one user. The second return is false when no record exists.
	Get(ctx context.Context, slackID string) (*User, bool, error)
	// Put writes the record under user.SlackID, replacing any previous state.
	Put(ctx context.Context, user *User) error
	// Delete removes the record entirely. Missing records are a no-op.
	Delete(ctx context.Context, slackID string) error
	// List returns every stored user, in no particular order.
	List(ctx context.Context) ([]*User, error)
}
