// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-securetoken.
//
// go-securetoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-securetoken/internal/encoding"
	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
	}
}

// FileConfig is the YAML configuration file for the serve command.
type FileConfig struct {
	// Issuer is the iss claim on minted tokens and the accepted issuer
	// during validation.
	Issuer string `yaml:"issuer"`

	// Audience is the default aud claim and accepted audience.
	Audience string `yaml:"audience"`

	// Algorithm is the signing algorithm (HS256..ES512).
	Algorithm string `yaml:"algorithm"`

	// KeyFile is the signing key: PEM (PKCS#8) or a JWK JSON file.
	KeyFile string `yaml:"key_file"`

	// KeyID labels the signing key in token headers.
	KeyID string `yaml:"key_id"`

	// Passphrase decrypts an encrypted PEM key file.
	Passphrase string `yaml:"passphrase"`

	// JWKSFile is an optional JWK set with verification keys.
	JWKSFile string `yaml:"jwks_file"`

	// ClockSkewSeconds is the lifetime validation tolerance.
	ClockSkewSeconds int `yaml:"clock_skew_seconds"`

	// RequireExpiration rejects tokens without an exp claim.
	RequireExpiration bool `yaml:"require_expiration"`

	Server struct {
		// Port is the HTTP listen port.
		Port int `yaml:"port"`
	} `yaml:"server"`

	Replay struct {
		// Enabled turns on one-time token enforcement.
		Enabled bool `yaml:"enabled"`

		// RedisAddr selects the Redis replay cache. Empty uses the
		// in-memory cache.
		RedisAddr string `yaml:"redis_addr"`

		// RedisPassword authenticates to Redis.
		RedisPassword string `yaml:"redis_password"`
	} `yaml:"replay"`
}

// LoadFileConfig reads the YAML config. An empty path falls back to
// $HOME/.securetoken.yaml; a missing default file yields zero values.
func LoadFileConfig(path string) (*FileConfig, error) {
	explicit := path != ""
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".securetoken.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// loadPrivateKey loads a signing key from a PEM or JWK file.
func loadPrivateKey(path, keyID string, passphrase []byte) (types.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	if isJSON(data) {
		key, err := types.ParseWebKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JWK key file %s: %w", path, err)
		}
		return key, nil
	}

	priv, err := encoding.DecodePrivateKeyPEM(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}

	switch k := priv.(type) {
	case *rsa.PrivateKey:
		return types.NewRSAKey(keyID, k), nil
	case *ecdsa.PrivateKey:
		return types.NewECDSAKey(keyID, k), nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T", priv)
	}
}

// loadVerificationKeys loads keys from a PEM public key, PEM certificate,
// JWK, or JWK set file.
func loadVerificationKeys(path, keyID string) ([]types.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	if isJSON(data) {
		if set, err := jwk.UnmarshalSet(data); err == nil && len(set.Keys) > 0 {
			return types.KeysFromSet(set)
		}
		key, err := types.ParseWebKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JWK key file %s: %w", path, err)
		}
		return []types.Key{key}, nil
	}

	if cert, err := encoding.DecodeCertificatePEM(data); err == nil {
		certKey := types.NewCertificateKey(cert)
		certKey.ID = keyID
		return []types.Key{certKey}, nil
	}

	pub, err := encoding.DecodePublicKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}

	switch k := pub.(type) {
	case *rsa.PublicKey:
		return []types.Key{types.NewRSAPublicKey(keyID, k)}, nil
	case *ecdsa.PublicKey:
		return []types.Key{types.NewECDSAPublicKey(keyID, k)}, nil
	default:
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}
}

// isJSON reports whether data starts with a JSON object or array.
func isJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
