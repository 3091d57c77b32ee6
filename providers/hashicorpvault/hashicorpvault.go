// Package hashicorpvault provides a SecretSource backed by a HashiCorp Vault
// KV v2 secret. The encryption secrets live as fields of a single secret
// (e.g. secret/data/phicrypt/encryption with keys ENCRYPTION_KEY,
// ENCRYPTION_KEY_VERSION, ENCRYPTION_KEY_PREVIOUS), so the whole rotation
// runbook happens in Vault and the application only restarts.
package hashicorpvault

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/vault/api"

	"github.com/careward/phicrypt"
)

// Source reads encryption secrets from a Vault KV v2 path.
type Source struct {
	client     *api.Client
	secretPath string
}

// New creates a Vault-backed source for the given secret path. Client
// configuration follows the standard environment: VAULT_ADDR,
// VAULT_NAMESPACE, and either VAULT_TOKEN or AppRole credentials in
// VAULT_ROLE_ID/VAULT_SECRET_ID.
func New(secretPath string) (*Source, error) {
	if secretPath == "" {
		return nil, fmt.Errorf("vault secret path cannot be empty")
	}

	config := api.DefaultConfig()
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		config.Address = addr
	}
	config.HttpClient.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if namespace := os.Getenv("VAULT_NAMESPACE"); namespace != "" {
		client.SetNamespace(namespace)
	}

	roleID := os.Getenv("VAULT_ROLE_ID")
	secretID := os.Getenv("VAULT_SECRET_ID")
	if roleID != "" && secretID != "" {
		resp, err := client.Logical().Write("auth/approle/login", map[string]interface{}{
			"role_id":   roleID,
			"secret_id": secretID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to login with AppRole: %w", err)
		}
		if resp.Auth == nil {
			return nil, fmt.Errorf("no auth info returned from AppRole login")
		}
		client.SetToken(resp.Auth.ClientToken)
	}

	return &Source{client: client, secretPath: secretPath}, nil
}

// GetSecret reads the named field from the configured KV v2 secret. A missing
// field yields the zero KeySecret, so the optional previous-key slot behaves
// the same as an unset environment variable.
func (s *Source) GetSecret(ctx context.Context, name string) (phicrypt.KeySecret, error) {
	value, err := s.lookup(ctx, name)
	if err != nil {
		return phicrypt.KeySecret{}, err
	}
	return phicrypt.NewKeySecret(value), nil
}

// GetValue reads the named field as a plain string.
func (s *Source) GetValue(ctx context.Context, name string) (string, error) {
	return s.lookup(ctx, name)
}

func (s *Source) lookup(ctx context.Context, name string) (string, error) {
	secret, err := s.client.Logical().ReadWithContext(ctx, s.secretPath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret from Vault at %s: %w", s.secretPath, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret not found at %s", s.secretPath)
	}

	// KV v2 nests the fields under "data".
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid secret format at %s", s.secretPath)
	}
	value, ok := data[name].(string)
	if !ok {
		return "", nil
	}
	return value, nil
}
