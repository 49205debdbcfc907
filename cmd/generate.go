package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-job-composer/internal/common/fsutil"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

var (
	generateFile     string
	generateOutput   string
	generateValidate bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an XML job document from a job configuration",
	Example: `  go-job-composer generate -f job.yaml
  go-job-composer generate -f job.yaml -o job.xml --validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := jobmodel.Load(generateFile)
		if err != nil {
			return err
		}

		document := jobxml.Generate(cfg)

		if generateOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), document)
		} else {
			if err := fsutil.WriteFile(generateOutput, []byte(document), 0644); err != nil {
				return err
			}
			logger.LogInfo("Wrote job document", map[string]interface{}{
				"job":  cfg.ID,
				"path": generateOutput,
			})
		}

		if !generateValidate {
			return nil
		}
		result := jobxml.Validate(document)
		fmt.Fprint(cmd.ErrOrStderr(), jobxml.FormatReport(result))
		if !result.IsValid {
			return errDocumentInvalid
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "job configuration file (YAML or JSON)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the document to this file instead of stdout")
	generateCmd.Flags().BoolVar(&generateValidate, "validate", false, "validate the generated document and print the report to stderr")
	_ = generateCmd.MarkFlagRequired("file")
}
