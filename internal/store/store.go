// Package store persists contacts behind a small contract: create, delete,
// list, exists. Backends: SQLite (default) and Postgres.
package store

import (
	"context"
	"errors"

	"github.com/tagmail/contact-cli/internal/model"
)

// ErrValidation marks a contact rejected by the store's own required-field
// check. The ingestion engine reports it as a per-row write failure.
var ErrValidation = errors.New("store: contact failed validation")

// ErrNotFound is returned when a contact id does not exist.
var ErrNotFound = errors.New("store: contact not found")

// ContactStore defines the persistence contract the ingestion pipeline
// writes through. Writes are keyed by (owner, email, tag) with
// last-write-wins semantics; no transaction spans more than one contact.
type ContactStore interface {
	// CreateContact validates and upserts one contact for owner.
	CreateContact(ctx context.Context, owner string, c model.CanonicalContact) (*model.Contact, error)

	// DeleteContact removes a contact by id.
	DeleteContact(ctx context.Context, id string) error

	// ListContactsByOwner returns owner's contacts ordered by tag then name.
	ListContactsByOwner(ctx context.Context, owner string) ([]model.Contact, error)

	// ContactExists reports whether owner already has a contact with the
	// given email and tag.
	ContactExists(ctx context.Context, owner, email, tag string) (bool, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// validate enforces the CanonicalContact invariant at the store boundary as
// well; the normalizer upstream should have rejected these already.
func validate(c model.CanonicalContact) error {
	if c.Name == "" || c.Email == "" || c.Tag == "" {
		return ErrValidation
	}
	return nil
}
