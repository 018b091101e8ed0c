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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-securetoken/pkg/metrics"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
)

// decodeCmd decodes a token without verifying it.
var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Decode a token without verification",
	Long: `Decode a token's header and claims without checking the
signature. The token is taken from the first argument, or from stdin
when the argument is "-" or absent.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()
		err := runDecode(args)

		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		metrics.RecordOperation(metrics.OpDecode, "cli", status, time.Since(start).Seconds())

		if err != nil {
			handleError(err)
		}
	},
}

func runDecode(args []string) error {
	tokenString, err := readTokenArg(args)
	if err != nil {
		return err
	}

	tok, err := token.NewCodec().Decode(tokenString)
	if err != nil {
		return err
	}

	return NewPrinter(getConfig().OutputFormat, os.Stdout).PrintDecodedToken(tok)
}
