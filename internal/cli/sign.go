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
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
)

var (
	signKeyFile    string
	signKeyID      string
	signPassphrase string
	signHMACSecret string
	signAlgorithm  string
	signIssuer     string
	signAudience   string
	signSubject    string
	signClaims     []string
	signLifetime   time.Duration
)

// signCmd mints a signed token.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Mint a signed token",
	Long: `Mint a compact signed token.

The signing key comes from --key (PEM or JWK file) for asymmetric
algorithms, or --hmac-secret (base64) for HMAC. Custom claims are
passed as repeated --claim name=value flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		err := runSign()

		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		metrics.RecordOperation(metrics.OpSign, signAlgorithm, status, time.Since(start).Seconds())

		if err != nil {
			handleError(err)
		}
	},
}

func init() {
	signCmd.Flags().StringVarP(&signKeyFile, "key", "k", "",
		"signing key file (PKCS#8 PEM or JWK)")
	signCmd.Flags().StringVar(&signKeyID, "key-id", "",
		"key ID recorded in the token header")
	signCmd.Flags().StringVar(&signPassphrase, "passphrase", "",
		"passphrase for an encrypted PEM key")
	signCmd.Flags().StringVar(&signHMACSecret, "hmac-secret", "",
		"base64 encoded HMAC secret")
	signCmd.Flags().StringVarP(&signAlgorithm, "algorithm", "a", types.RS256,
		"signing algorithm (HS256..ES512)")
	signCmd.Flags().StringVar(&signIssuer, "issuer", "",
		"iss claim")
	signCmd.Flags().StringVar(&signAudience, "audience", "",
		"aud claim")
	signCmd.Flags().StringVar(&signSubject, "subject", "",
		"sub claim")
	signCmd.Flags().StringArrayVar(&signClaims, "claim", nil,
		"custom claim as name=value (repeatable)")
	signCmd.Flags().DurationVar(&signLifetime, "lifetime", 0,
		"token lifetime (default 1h)")
}

func runSign() error {
	key, err := signingKey()
	if err != nil {
		return err
	}

	claims := make(map[string]any, len(signClaims))
	for _, pair := range signClaims {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return fmt.Errorf("invalid claim %q, expected name=value", pair)
		}
		claims[name] = value
	}

	descriptor := &token.Descriptor{
		Issuer:             signIssuer,
		Audience:           signAudience,
		Subject:            signSubject,
		Claims:             claims,
		SigningCredentials: types.NewSigningCredentials(key, signAlgorithm),
	}
	if signLifetime > 0 {
		now := time.Now()
		descriptor.NotBefore = now
		descriptor.Expires = now.Add(signLifetime)
	}

	builder := token.NewBuilder(nil, nil)
	tok, err := builder.Create(descriptor)
	if err != nil {
		return err
	}

	return NewPrinter(getConfig().OutputFormat, os.Stdout).PrintToken(tok)
}

// signingKey resolves the key from --hmac-secret or --key.
func signingKey() (types.Key, error) {
	if signHMACSecret != "" {
		secret, err := base64.StdEncoding.DecodeString(signHMACSecret)
		if err != nil {
			return nil, fmt.Errorf("invalid hmac secret: %w", err)
		}
		return types.NewSymmetricKey(signKeyID, secret), nil
	}
	if signKeyFile == "" {
		return nil, fmt.Errorf("either --key or --hmac-secret is required")
	}

	var passphrase []byte
	if signPassphrase != "" {
		passphrase = []byte(signPassphrase)
	}
	return loadPrivateKey(signKeyFile, signKeyID, passphrase)
}
