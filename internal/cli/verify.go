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
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/types"
	"github.com/jeremyhahn/go-securetoken/pkg/validation"
)

var (
	verifyKeyFile    string
	verifyKeyID      string
	verifyHMACSecret string
	verifyIssuer     string
	verifyAudience   string
	verifySkew       time.Duration
	verifyNoLifetime bool
	verifyNoAudience bool
	verifyNoIssuer   bool
	verifyRequireExp bool
	verifyActor      bool
)

// verifyCmd validates a token through the full pipeline.
var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Validate a token",
	Long: `Validate a token's signature, lifetime, audience, and issuer.

The token is taken from the first argument, or from stdin when the
argument is "-" or absent. Verification keys come from --key (PEM
public key, PEM certificate, JWK, or JWK set file) or --hmac-secret.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		err := runVerify(args)

		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		metrics.RecordOperation(metrics.OpVerify, "cli", status, time.Since(start).Seconds())

		if err != nil {
			handleError(err)
		}
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyKeyFile, "key", "k", "",
		"verification key file (PEM public key, PEM certificate, JWK, or JWK set)")
	verifyCmd.Flags().StringVar(&verifyKeyID, "key-id", "",
		"key ID attached to the verification key")
	verifyCmd.Flags().StringVar(&verifyHMACSecret, "hmac-secret", "",
		"base64 encoded HMAC secret")
	verifyCmd.Flags().StringVar(&verifyIssuer, "issuer", "",
		"accepted issuer")
	verifyCmd.Flags().StringVar(&verifyAudience, "audience", "",
		"accepted audience")
	verifyCmd.Flags().DurationVar(&verifySkew, "skew", 0,
		"clock skew tolerance for lifetime checks")
	verifyCmd.Flags().BoolVar(&verifyNoLifetime, "no-lifetime", false,
		"skip lifetime validation")
	verifyCmd.Flags().BoolVar(&verifyNoAudience, "no-audience", false,
		"skip audience validation")
	verifyCmd.Flags().BoolVar(&verifyNoIssuer, "no-issuer", false,
		"skip issuer validation")
	verifyCmd.Flags().BoolVar(&verifyRequireExp, "require-exp", false,
		"reject tokens without an exp claim")
	verifyCmd.Flags().BoolVar(&verifyActor, "validate-actor", false,
		"recursively validate a nested actor token")
}

func runVerify(args []string) error {
	tokenString, err := readTokenArg(args)
	if err != nil {
		return err
	}

	params := validation.NewParameters()
	params.ValidateLifetime = !verifyNoLifetime
	params.ValidateAudience = !verifyNoAudience
	params.ValidateIssuer = !verifyNoIssuer
	params.ValidateActor = verifyActor
	params.RequireExpirationTime = verifyRequireExp
	params.ClockSkew = verifySkew
	params.ValidIssuer = verifyIssuer
	params.ValidAudience = verifyAudience

	if verifyHMACSecret != "" {
		secret, err := base64.StdEncoding.DecodeString(verifyHMACSecret)
		if err != nil {
			return fmt.Errorf("invalid hmac secret: %w", err)
		}
		params.IssuerSigningKey = types.NewSymmetricKey(verifyKeyID, secret)
	} else if verifyKeyFile != "" {
		keys, err := loadVerificationKeys(verifyKeyFile, verifyKeyID)
		if err != nil {
			return err
		}
		params.IssuerSigningKeys = keys
	} else {
		return fmt.Errorf("either --key or --hmac-secret is required")
	}

	validator := validation.NewValidator()
	identity, _, err := validator.Validate(rootCmd.Context(), tokenString, params)
	if err != nil {
		return err
	}

	return NewPrinter(getConfig().OutputFormat, os.Stdout).PrintIdentity(identity)
}

// readTokenArg returns the token from args, or stdin when absent or "-".
func readTokenArg(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read token from stdin: %w", err)
		}
		return "", fmt.Errorf("no token provided")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
