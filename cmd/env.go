package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/tagmail/contact-cli/internal/ingest"
	"github.com/tagmail/contact-cli/internal/model"
	"github.com/tagmail/contact-cli/internal/store"
)

// initStore opens the configured store backend and runs migrations.
// Callers must Close it.
func initStore(ctx context.Context) (store.ContactStore, error) {
	var (
		st  store.ContactStore
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "contacts.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newEngine builds an ingestion engine for owner, with the duplicate check
// enabled when requested.
func newEngine(st store.ContactStore, owner string, dedupe bool) *ingest.Engine {
	if !dedupe {
		return ingest.New()
	}
	return ingest.New(ingest.WithDedupe(func(ctx context.Context, email, tag string) (bool, error) {
		return st.ContactExists(ctx, owner, email, tag)
	}))
}

// storeWriter adapts the store's create call to the engine's write contract.
func storeWriter(st store.ContactStore, owner string) ingest.WriteFunc {
	return func(ctx context.Context, c model.CanonicalContact) error {
		_, err := st.CreateContact(ctx, owner, c)
		return err
	}
}
