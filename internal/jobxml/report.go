package jobxml

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/jsonutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/plistutil"
)

// Output formats accepted by EncodeResult.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatPlist = "plist"
)

// FormatReport renders a validation result as a multi-line human readable report.
func FormatReport(result ValidationResult) string {
	var b strings.Builder

	if result.IsValid {
		b.WriteString("VALIDATION PASSED\n")
	} else {
		b.WriteString("VALIDATION FAILED\n")
	}
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", len(result.Errors), len(result.Warnings))

	if len(result.Errors) > 0 {
		b.WriteString("\nERRORS:\n")
		for i, e := range result.Errors {
			writeFinding(&b, i+1, string(e.Category), e.Message, e.Element)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\nWARNINGS:\n")
		for i, w := range result.Warnings {
			writeFinding(&b, i+1, string(w.Category), w.Message, w.Element)
		}
	}

	return b.String()
}

func writeFinding(b *strings.Builder, n int, category, message, element string) {
	fmt.Fprintf(b, "  %d. [%s] %s", n, category, message)
	if element != "" {
		fmt.Fprintf(b, " (element: %s)", element)
	}
	b.WriteByte('\n')
}

// EncodeResult serializes a validation result as text, JSON or an XML property list.
func EncodeResult(result ValidationResult, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return []byte(FormatReport(result)), nil
	case FormatJSON:
		return jsonutil.Marshal(result)
	case FormatPlist:
		return plistutil.Marshal(result, plistutil.FormatXML)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFormat, format)
	}
}
