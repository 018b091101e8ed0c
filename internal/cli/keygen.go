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
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/internal/encoding"
	"github.com/jeremyhahn/go-securetoken/pkg/jwk"
	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
)

var (
	keygenType       string
	keygenBits       int
	keygenCurve      string
	keygenSecretLen  int
	keygenOut        string
	keygenPassphrase string
	keygenKeyID      string
	keygenJWK        bool
)

// keygenCmd generates signing key material.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate signing key material",
	Long: `Generate a signing key for token issuance.

RSA and ECDSA keys are written as PKCS#8 PEM (private) and PKIX PEM
(public), or as a JWK with --jwk. HMAC secrets are printed base64
encoded.`,
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		err := runKeygen()

		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		metrics.RecordOperation(metrics.OpKeygen, keygenType, status, time.Since(start).Seconds())

		if err != nil {
			handleError(err)
		}
	},
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenType, "type", "t", "rsa",
		"key type (rsa, ec, hmac)")
	keygenCmd.Flags().IntVarP(&keygenBits, "bits", "b", 2048,
		"RSA key size in bits")
	keygenCmd.Flags().StringVar(&keygenCurve, "curve", "P-256",
		"ECDSA curve (P-256, P-384, P-521)")
	keygenCmd.Flags().IntVar(&keygenSecretLen, "secret-bytes", 32,
		"HMAC secret length in bytes")
	keygenCmd.Flags().StringVar(&keygenOut, "out", "",
		"output file for the private key (public key written to <out>.pub); stdout if empty")
	keygenCmd.Flags().StringVar(&keygenPassphrase, "passphrase", "",
		"encrypt the private key PEM with this passphrase")
	keygenCmd.Flags().StringVar(&keygenKeyID, "key-id", "",
		"key ID recorded in JWK output")
	keygenCmd.Flags().BoolVar(&keygenJWK, "jwk", false,
		"emit the private key as a JWK instead of PEM")
}

func runKeygen() error {
	printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

	if keygenType == "hmac" {
		secret := make([]byte, keygenSecretLen)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		return printer.PrintSuccess(base64.StdEncoding.EncodeToString(secret))
	}

	var priv crypto.PrivateKey
	var err error
	switch keygenType {
	case "rsa":
		priv, err = rsa.GenerateKey(rand.Reader, keygenBits)
	case "ec":
		var curve elliptic.Curve
		switch keygenCurve {
		case "P-256":
			curve = elliptic.P256()
		case "P-384":
			curve = elliptic.P384()
		case "P-521":
			curve = elliptic.P521()
		default:
			return fmt.Errorf("unsupported curve: %s", keygenCurve)
		}
		priv, err = ecdsa.GenerateKey(curve, rand.Reader)
	default:
		return fmt.Errorf("unsupported key type: %s", keygenType)
	}
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	if keygenJWK {
		key, err := jwk.FromPrivateKey(priv)
		if err != nil {
			return err
		}
		key.Kid = keygenKeyID
		data, err := key.Marshal()
		if err != nil {
			return err
		}
		return writeKeyOutput(printer, append(data, '\n'), nil)
	}

	var passphrase []byte
	if keygenPassphrase != "" {
		passphrase = []byte(keygenPassphrase)
	}
	privPEM, err := encoding.EncodePrivateKeyPEM(priv, passphrase)
	if err != nil {
		return err
	}

	pub, err := encoding.ExtractPublicKey(priv)
	if err != nil {
		return err
	}
	pubPEM, err := encoding.EncodePublicKeyPEM(pub)
	if err != nil {
		return err
	}

	return writeKeyOutput(printer, privPEM, pubPEM)
}

// writeKeyOutput writes the private key to --out (or stdout) and the
// public half, when present, to <out>.pub.
func writeKeyOutput(printer *Printer, private, public []byte) error {
	if keygenOut == "" {
		if err := printer.PrintRaw(private); err != nil {
			return err
		}
		if public != nil {
			return printer.PrintRaw(public)
		}
		return nil
	}

	if err := os.WriteFile(keygenOut, private, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	printVerbose("wrote private key to %s", keygenOut)

	if public != nil {
		pubPath := keygenOut + ".pub"
		if err := os.WriteFile(pubPath, public, 0644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
		printVerbose("wrote public key to %s", pubPath)
	}
	return printer.PrintSuccess(fmt.Sprintf("Key written to %s", keygenOut))
}
