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
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-securetoken/pkg/claims"
	"github.com/jeremyhahn/go-securetoken/pkg/token"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintToken prints a minted token
func (p *Printer) PrintToken(tok *token.Token) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"token":      tok.Raw,
			"token_id":   tok.ID(),
			"algorithm":  tok.Algorithm(),
			"expires_at": tok.Expires().Unix(),
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, tok.Raw)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDecodedToken prints a decoded token's header and claims
func (p *Printer) PrintDecodedToken(tok *token.Token) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"header": tok.Header,
			"claims": tok.Claims,
			"signed": tok.IsSigned(),
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, "Header:")
		if err := p.printIndentedJSON(tok.Header); err != nil {
			return err
		}
		fmt.Fprintln(p.writer, "Claims:")
		if err := p.printIndentedJSON(tok.Claims); err != nil {
			return err
		}
		fmt.Fprintf(p.writer, "Signed: %t\n", tok.IsSigned())
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintIdentity prints a validated identity
func (p *Printer) PrintIdentity(identity *claims.Identity) error {
	switch p.format {
	case OutputFormatJSON:
		claimList := make([]map[string]string, len(identity.Claims))
		for i, c := range identity.Claims {
			claimList[i] = map[string]string{
				"type":   c.Type,
				"value":  c.Value,
				"issuer": c.Issuer,
			}
		}
		return p.printJSON(map[string]interface{}{
			"valid":               true,
			"name":                identity.Name(),
			"authentication_type": identity.AuthenticationType,
			"claims":              claimList,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, "Token is valid")
		if name := identity.Name(); name != "" {
			fmt.Fprintf(p.writer, "Name: %s\n", name)
		}
		fmt.Fprintln(p.writer, "Claims:")
		for _, c := range identity.Claims {
			fmt.Fprintf(p.writer, "  %s = %s\n", c.Type, c.Value)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRaw prints a preformatted blob (PEM, JWKS JSON) as-is
func (p *Printer) PrintRaw(data []byte) error {
	_, err := p.writer.Write(data)
	return err
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printIndentedJSON prints a value indented by two spaces
func (p *Printer) printIndentedJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(p.writer, "  %s\n", out)
	return nil
}
