package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/tagmail/contact-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements ContactStore using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (used by tests with pgxmock).
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	tag         TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	subscribed  BOOLEAN NOT NULL DEFAULT TRUE,
	location    TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(owner, email, tag)
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner);
CREATE INDEX IF NOT EXISTS idx_contacts_owner_tag ON contacts(owner, tag);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateContact(ctx context.Context, owner string, c model.CanonicalContact) (*model.Contact, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	var contact model.Contact
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (owner, email, tag) DO UPDATE SET
		   name = EXCLUDED.name,
		   description = EXCLUDED.description,
		   subscribed = EXCLUDED.subscribed,
		   location = EXCLUDED.location,
		   phone = EXCLUDED.phone,
		   updated_at = EXCLUDED.updated_at
		 RETURNING id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at`,
		id, owner, c.Name, c.Email, c.Tag, c.Description, c.Subscribed, c.Location, c.Phone, now, now,
	).Scan(&contact.ID, &contact.Owner, &contact.Name, &contact.Email, &contact.Tag,
		&contact.Description, &contact.Subscribed, &contact.Location, &contact.Phone,
		&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: upsert contact")
	}
	return &contact, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete contact %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

func (s *PostgresStore) ListContactsByOwner(ctx context.Context, owner string) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner, name, email, tag, description, subscribed, location, phone, created_at, updated_at
		 FROM contacts WHERE owner = $1 ORDER BY tag, name`,
		owner,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Email, &c.Tag,
			&c.Description, &c.Subscribed, &c.Location, &c.Phone,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: iterate contacts")
}

func (s *PostgresStore) ContactExists(ctx context.Context, owner, email, tag string) (bool, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(1) FROM contacts WHERE owner = $1 AND email = $2 AND tag = $3`,
		owner, email, tag,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "postgres: contact exists")
	}
	return n > 0, nil
}
