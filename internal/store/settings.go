package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"jobfeed-engine/internal/provider"
)

// GetSettings returns the stored settings row for one provider. A missing row
// is empty settings, not an error. Auth tokens live in the keyring, not here.
func (s *Store) GetSettings(ctx context.Context, providerID string) (provider.Settings, error) {
	var endpoint, headersJSON string
	err := s.Pool.QueryRowContext(ctx,
		`SELECT endpoint, headers FROM provider_settings WHERE provider = ?`,
		providerID,
	).Scan(&endpoint, &headersJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return provider.Settings{}, nil
	}
	if err != nil {
		return provider.Settings{}, errors.Wrapf(err, "settings %s", providerID)
	}

	var headers map[string]string
	_ = json.Unmarshal([]byte(headersJSON), &headers)
	return provider.Settings{Endpoint: endpoint, Headers: headers}, nil
}

// SettingsMap returns settings for the given providers, with empty settings
// for providers that have no row.
func (s *Store) SettingsMap(ctx context.Context, providerIDs []string) (map[string]provider.Settings, error) {
	out := make(map[string]provider.Settings, len(providerIDs))
	for _, id := range providerIDs {
		out[id] = provider.Settings{}
	}

	rows, err := s.Pool.QueryContext(ctx, `SELECT provider, endpoint, headers FROM provider_settings`)
	if err != nil {
		return nil, errors.Wrap(err, "settings map")
	}
	defer rows.Close()

	for rows.Next() {
		var id, endpoint, headersJSON string
		if err := rows.Scan(&id, &endpoint, &headersJSON); err != nil {
			return nil, err
		}
		if _, known := out[id]; !known {
			continue
		}
		var headers map[string]string
		_ = json.Unmarshal([]byte(headersJSON), &headers)
		out[id] = provider.Settings{Endpoint: endpoint, Headers: headers}
	}
	return out, rows.Err()
}

// UpsertSettings overwrites the settings row for one provider.
func (s *Store) UpsertSettings(ctx context.Context, providerID string, set provider.Settings) error {
	headersJSON, _ := json.Marshal(set.Headers)
	if set.Headers == nil {
		headersJSON = []byte("{}")
	}
	_, err := s.Pool.ExecContext(ctx, `
INSERT INTO provider_settings (provider, endpoint, headers)
VALUES (?, ?, ?)
ON CONFLICT(provider) DO UPDATE SET
  endpoint = excluded.endpoint,
  headers = excluded.headers;`,
		providerID, set.Endpoint, string(headersJSON),
	)
	if err != nil {
		return errors.Wrapf(err, "upsert settings %s", providerID)
	}
	return nil
}
