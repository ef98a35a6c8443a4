package store

import (
	"context"
	"errors"
	"time"

	"github.com/classforge/enroll/internal/enroll/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional update that matched no row: the
	// invitation either does not exist or is no longer in the expected
	// status. Callers disambiguate with a follow-up read.
	ErrConflict = errors.New("store: conditional update matched no row")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Invitations() Invitations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// CreateInvitation inserts a new invitation (id is provided by app via
	// ULID). Returns ErrAlreadyExists on an invitation code collision.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID fetches an invitation within its owning organization.
	GetInvitationByID(ctx context.Context, orgID, id string) (domain.Invitation, error)

	// GetInvitationByCode fetches an invitation by its shareable code,
	// regardless of organization. Codes are globally unique.
	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)

	// ListInvitationsByOrg returns all invitations for an organization
	// ordered by creation date (newest first).
	ListInvitationsByOrg(ctx context.Context, orgID string) ([]domain.Invitation, error)

	// CodeInUse reports whether any live invitation holds the given code.
	CodeInUse(ctx context.Context, code string) (bool, error)

	// MarkAccepted flips status to accepted and sets accepted_at, but only if
	// the invitation is still pending and unexpired at the given time.
	// Returns ErrConflict when no row matched.
	MarkAccepted(ctx context.Context, id string, at time.Time) error

	// MarkCancelled flips status to cancelled and sets cancelled_at, but only
	// if the invitation is still pending and unexpired at the given time.
	// Returns ErrConflict when no row matched.
	MarkCancelled(ctx context.Context, orgID, id string, at time.Time) error

	// DeleteInvitation hard-removes an invitation in any status.
	DeleteInvitation(ctx context.Context, orgID, id string) error

	// DeleteExpired hard-removes every pending invitation in the organization
	// whose expiry has passed, returning the number removed.
	DeleteExpired(ctx context.Context, orgID string, now time.Time) (int64, error)

	// SweepExpired is DeleteExpired across every organization (housekeeping).
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
