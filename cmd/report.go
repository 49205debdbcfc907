package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
)

var reportCmd = &cobra.Command{
	Use:   "report <job.xml|->",
	Short: "Print the validation report for an XML job document",
	Long: `Report prints the human readable validation report for a document. Unlike
validate, it succeeds whether or not the document is valid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		document, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), jobxml.FormatReport(jobxml.Validate(document)))
		return nil
	},
}
