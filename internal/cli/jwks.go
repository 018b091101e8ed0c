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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/internal/encoding"
	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
)

var jwksKeyIDs []string

// jwksCmd builds a public JWK set from key files.
var jwksCmd = &cobra.Command{
	Use:   "jwks <key-file>...",
	Short: "Build a public JWK set from key files",
	Long: `Build a JWK set from PEM or JWK key files. Private parameters
are stripped and symmetric keys are excluded, so the output is safe to
publish at a jwks_uri endpoint.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runJWKS(args); err != nil {
			handleError(err)
		}
	},
}

func init() {
	jwksCmd.Flags().StringArrayVar(&jwksKeyIDs, "key-id", nil,
		"key ID for each key file, in order (repeatable)")
}

func runJWKS(paths []string) error {
	set := &jwk.Set{Keys: make([]*jwk.JWK, 0, len(paths))}

	for i, path := range paths {
		key, err := loadJWK(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if i < len(jwksKeyIDs) {
			key.Kid = jwksKeyIDs[i]
		}
		set.Keys = append(set.Keys, key)
	}

	public := set.Public()
	if len(public.Keys) == 0 {
		return fmt.Errorf("no publishable keys: symmetric keys are excluded from JWK sets")
	}

	data, err := public.Marshal()
	if err != nil {
		return err
	}

	printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
	return printer.PrintRaw(append(data, '\n'))
}

// loadJWK reads a single key file as JWK, PEM private key, or PEM
// public key.
func loadJWK(path string) (*jwk.JWK, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isJSON(data) {
		return jwk.Unmarshal(data)
	}

	if priv, err := encoding.DecodePrivateKeyPEM(data, nil); err == nil {
		return jwk.FromPrivateKey(priv)
	}

	pub, err := encoding.DecodePublicKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return jwk.FromPublicKey(pub)
}
