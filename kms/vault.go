package kms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/vault/api"
)

// VaultKeyConfig locates the signing key in a Vault KV v2 secrets engine.
type VaultKeyConfig struct {
	// Address is the Vault server address, e.g. https://vault.example.com:8200.
	Address string

	// Token authenticates the request.
	Token string

	// MountPath is the KV v2 mount, e.g. "secret".
	MountPath string

	// SecretPath is the path of the secret within the mount.
	SecretPath string

	// Field is the key inside the secret holding the hex private key.
	Field string
}

// LoadVaultSigner reads a hex private key from Vault and returns a signer for it.
func LoadVaultSigner(ctx context.Context, cfg VaultKeyConfig, log *slog.Logger) (*LocalSigner, error) {
	config := api.DefaultConfig()
	config.Address = cfg.Address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mountPath := strings.Trim(cfg.MountPath, "/")
	secretPath := strings.Trim(cfg.SecretPath, "/")
	field := cfg.Field
	if field == "" {
		field = "private_key"
	}

	// KV v2 path structure
	path := fmt.Sprintf("%s/data/%s", mountPath, secretPath)

	secret, err := client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: no secret at %s", ErrMissingKey, path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response at %s", path)
	}

	hexKey, ok := data[field].(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q not found at %s", ErrMissingKey, field, path)
	}

	signer, err := NewLocalSignerFromHex(hexKey)
	if err != nil {
		return nil, err
	}

	log.Info("Loaded signing key from Vault", "path", path, "address", signer.Address().Hex())
	return signer, nil
}
