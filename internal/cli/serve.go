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
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/internal/rest"
	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
	"github.com/jeremyhahn/go-securetoken/pkg/logging"
	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/replay"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
	"github.com/jeremyhahn/go-securetoken/pkg/validation"
)

var servePort int

// serveCmd runs the token service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the token service",
	Long: `Run the HTTP token service configured by the YAML config file.

The service issues tokens at POST /api/v1/tokens, validates them at
POST /api/v1/tokens/validate, and publishes verification keys at
/.well-known/jwks.json.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			handleError(err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"listen port (overrides config file)")
}

func runServe() error {
	cfg, err := LoadFileConfig(getConfig().ConfigFile)
	if err != nil {
		return err
	}
	if cfg.KeyFile == "" {
		return fmt.Errorf("key_file is required in the config file")
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = types.RS256
	}

	logger := logging.NewLogger(getConfig().Verbose)

	key, err := serveSigningKey(cfg)
	if err != nil {
		return err
	}

	params := validation.NewParameters()
	params.IssuerSigningKey = key
	params.ValidIssuer = cfg.Issuer
	params.ValidAudience = cfg.Audience
	params.ClockSkew = time.Duration(cfg.ClockSkewSeconds) * time.Second
	params.RequireExpirationTime = cfg.RequireExpiration

	keySet := &jwk.Set{}
	if cfg.JWKSFile != "" {
		data, err := os.ReadFile(cfg.JWKSFile)
		if err != nil {
			return fmt.Errorf("failed to read jwks file: %w", err)
		}
		set, err := jwk.UnmarshalSet(data)
		if err != nil {
			return fmt.Errorf("failed to parse jwks file: %w", err)
		}
		keySet = set

		extra, err := types.KeysFromSet(set)
		if err != nil {
			return err
		}
		params.IssuerSigningKeys = extra
	} else if publicJWK, err := publicJWKFor(key); err == nil {
		keySet.Keys = append(keySet.Keys, publicJWK)
	}

	if cfg.Replay.Enabled {
		if cfg.Replay.RedisAddr != "" {
			client := redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs:    strings.Split(cfg.Replay.RedisAddr, ","),
				Password: cfg.Replay.RedisPassword,
			})
			params.ReplayCache = replay.NewRedisCache(client)
			logger.Info("Replay protection enabled", "backend", "redis")
		} else {
			params.ReplayCache = replay.NewMemoryCache()
			logger.Info("Replay protection enabled", "backend", "memory")
		}
	}

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	server, err := rest.NewServer(&rest.Config{
		Port:                 port,
		Version:              Version,
		Issuer:               cfg.Issuer,
		Audience:             cfg.Audience,
		SigningCredentials:   types.NewSigningCredentials(key, cfg.Algorithm),
		ValidationParameters: params,
		KeySet:               keySet,
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartResourceCollector(ctx, 30*time.Second)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return server.Stop(shutdownCtx)
}

// serveSigningKey loads the configured signing key. HMAC algorithms read
// a base64 secret from key_file; asymmetric algorithms read PEM or JWK.
func serveSigningKey(cfg *FileConfig) (types.Key, error) {
	if types.IsSymmetricAlgorithm(cfg.Algorithm) {
		data, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		secret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("key file must contain a base64 secret for %s: %w", cfg.Algorithm, err)
		}
		return types.NewSymmetricKey(cfg.KeyID, secret), nil
	}

	var passphrase []byte
	if cfg.Passphrase != "" {
		passphrase = []byte(cfg.Passphrase)
	}
	return loadPrivateKey(cfg.KeyFile, cfg.KeyID, passphrase)
}

// publicJWKFor derives the public JWK for an asymmetric signing key.
func publicJWKFor(key types.Key) (*jwk.JWK, error) {
	var publicJWK *jwk.JWK
	var err error

	switch k := key.(type) {
	case *types.RSAKey:
		publicJWK, err = jwk.FromPublicKey(k.Public())
	case *types.ECDSAKey:
		publicJWK, err = jwk.FromPublicKey(k.Public())
	case *types.WebKey:
		if pub, pubErr := k.JWK.ToPublicKey(); pubErr == nil {
			publicJWK, err = jwk.FromPublicKey(pub)
		} else {
			return nil, pubErr
		}
	default:
		return nil, fmt.Errorf("no public form for key type %T", key)
	}
	if err != nil {
		return nil, err
	}

	publicJWK.Kid = key.KeyID()
	return publicJWK, nil
}
