package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	sfpkg "github.com/sells-group/leadgen-cli/pkg/salesforce"
)

// sfRateLimit caps Salesforce API calls per second.
const sfRateLimit = 5

func initStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.DatabaseURL
	if dsn == "" {
		dsn = "leadgen.db"
	}
	st, err := store.NewSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func initSalesforce() (sfpkg.Client, error) {
	if err := cfg.ValidateSalesforce(); err != nil {
		return nil, err
	}

	pemData, err := afero.ReadFile(appFs, cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	return sfpkg.Dial(sfpkg.Creds{
		LoginURL:   cfg.Salesforce.LoginURL,
		Username:   cfg.Salesforce.Username,
		ClientID:   cfg.Salesforce.ClientID,
		PrivateKey: string(pemData),
	}, sfpkg.WithRateLimit(sfRateLimit))
}

func loadContacts(path string) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := artifact.ReadJSON(appFs, path, &contacts); err != nil {
		return nil, eris.Wrap(err, "load contacts")
	}
	return contacts, nil
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
