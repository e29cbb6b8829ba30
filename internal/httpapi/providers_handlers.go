package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobfeed-engine/internal/provider"
	"jobfeed-engine/internal/secrets"
	"jobfeed-engine/internal/store"
)

type ProvidersHandler struct {
	Store    *store.Store
	Registry *provider.Registry
}

// providerID extracts the id from /providers/{id}/... paths.
func (h ProvidersHandler) providerID(r *http.Request, suffix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, "/providers/")
	p = strings.TrimSuffix(p, suffix)
	p = strings.Trim(p, "/")
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	_, known := h.Registry.Get(p)
	return p, known
}

// GetSettings serves GET /providers/{id}/settings. Tokens stay in the
// keyring; only whether one exists is reported.
func (h ProvidersHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(r, "/settings")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "unknown provider")
		return
	}
	set, err := h.Store.GetSettings(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{
		"provider": id,
		"endpoint": set.Endpoint,
		"headers":  set.Headers,
		"hasToken": secrets.GetProviderToken(id) != "",
	})
}

// PutSettings serves PUT /providers/{id}/settings.
func (h ProvidersHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(r, "/settings")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "unknown provider")
		return
	}

	var body struct {
		Endpoint string            `json:"endpoint"`
		Headers  map[string]string `json:"headers"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	set := provider.Settings{Endpoint: strings.TrimSpace(body.Endpoint), Headers: body.Headers}
	if err := h.Store.UpsertSettings(r.Context(), id, set); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "provider": id})
}

// SetToken serves POST /providers/{id}/token; the token goes straight into
// the OS keyring and never touches the store.
func (h ProvidersHandler) SetToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(r, "/token")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "unknown provider")
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if err := secrets.SetProviderToken(id, body.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "token_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "provider": id})
}

// DeleteToken serves DELETE /providers/{id}/token.
func (h ProvidersHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.providerID(r, "/token")
	if !ok {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "unknown provider")
		return
	}
	if err := secrets.DeleteProviderToken(id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "token_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "provider": id})
}

// List serves GET /providers: the registry plus configured state.
func (h ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.SettingsMap(r.Context(), h.Registry.IDs())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}

	type entry struct {
		ID         string `json:"id"`
		Label      string `json:"label"`
		Category   string `json:"defaultCategory"`
		Configured bool   `json:"configured"`
	}
	out := make([]entry, 0, len(h.Registry.IDs()))
	for _, p := range h.Registry.All() {
		set := settings[p.ID()]
		if set.AuthToken == "" {
			set.AuthToken = secrets.GetProviderToken(p.ID())
		}
		out = append(out, entry{
			ID:         p.ID(),
			Label:      p.Label(),
			Category:   p.DefaultCategory(),
			Configured: p.IsConfigured(set),
		})
	}
	writeJSON(w, out)
}
