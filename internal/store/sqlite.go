package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/tagmail/contact-cli/internal/model"
)

// SQLiteStore implements ContactStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	tag         TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	subscribed  INTEGER NOT NULL DEFAULT 1,
	location    TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(owner, email, tag)
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner);
CREATE INDEX IF NOT EXISTS idx_contacts_owner_tag ON contacts(owner, tag);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateContact(ctx context.Context, owner string, c model.CanonicalContact) (*model.Contact, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	// Last-write-wins on (owner, email, tag): a duplicate refreshes the
	// mutable fields, keeping the original id and created_at.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner, email, tag) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   subscribed = excluded.subscribed,
		   location = excluded.location,
		   phone = excluded.phone,
		   updated_at = excluded.updated_at`,
		id, owner, c.Name, c.Email, c.Tag, c.Description, boolToInt(c.Subscribed), c.Location, c.Phone, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: upsert contact")
	}

	var contact model.Contact
	var subscribed int
	err = s.db.QueryRowContext(ctx,
		`SELECT id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at
		 FROM contacts WHERE owner = ? AND email = ? AND tag = ?`,
		owner, c.Email, c.Tag,
	).Scan(&contact.ID, &contact.Owner, &contact.Name, &contact.Email, &contact.Tag,
		&contact.Description, &subscribed, &contact.Location, &contact.Phone,
		&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read back contact")
	}
	contact.Subscribed = subscribed != 0
	return &contact, nil
}

func (s *SQLiteStore) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete contact %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

func (s *SQLiteStore) ListContactsByOwner(ctx context.Context, owner string) ([]model.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at
		 FROM contacts WHERE owner = ? ORDER BY tag, name`,
		owner,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close() //nolint:errcheck

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var subscribed int
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Email, &c.Tag,
			&c.Description, &subscribed, &c.Location, &c.Phone,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		c.Subscribed = subscribed != 0
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: iterate contacts")
}

func (s *SQLiteStore) ContactExists(ctx context.Context, owner, email, tag string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM contacts WHERE owner = ? AND email = ? AND tag = ?`,
		owner, email, tag,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: contact exists")
	}
	return n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
