package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// the service name groups all of the app's secrets in the OS keychain
	KeyringService = "jobfeed"
)

func providerAccount(providerID string) string {
	return "jobfeed:provider:" + providerID
}

// GetProviderToken reads a provider's auth token from the OS keyring. A
// missing token is empty, not an error; unconfigured providers are normal.
func GetProviderToken(providerID string) string {
	if strings.TrimSpace(providerID) == "" {
		return ""
	}
	t, err := keyring.Get(KeyringService, providerAccount(providerID))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(t)
}

func SetProviderToken(providerID, token string) error {
	if strings.TrimSpace(providerID) == "" {
		return errors.New("provider id is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, providerAccount(providerID), token)
}

func DeleteProviderToken(providerID string) error {
	if strings.TrimSpace(providerID) == "" {
		return errors.New("provider id is empty")
	}
	return keyring.Delete(KeyringService, providerAccount(providerID))
}
