package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-job-composer/internal/common/xmlutil"
	"github.com/deploymenttheory/go-job-composer/internal/config"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate <job.xml|->",
	Short: "Validate an XML job document",
	Long: `Validate checks an XML job document and prints the findings. The exit status is
non-zero when the document has errors; warnings never affect it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		document, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		output := validateOutput
		if !cmd.Flags().Changed("output") {
			output = config.Instance.Report.Output
		}

		result := jobxml.Validate(document)
		data, err := jobxml.EncodeResult(result, output)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}

		logger.LogDebug("Validated job document", map[string]interface{}{
			"source":   args[0],
			"valid":    result.IsValid,
			"errors":   len(result.Errors),
			"warnings": len(result.Warnings),
		})
		if !result.IsValid {
			return errDocumentInvalid
		}
		return nil
	},
}

// readDocument reads a document from a file, or from stdin when path is "-".
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := xmlutil.ReadXMLFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	validateCmd.Flags().StringVar(&validateOutput, "output", jobxml.FormatText, "report format: text, json or plist")
}
