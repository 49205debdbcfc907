package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	compression "github.com/deploymenttheory/go-job-composer/internal/common/compressionutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/cryptoutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/config"
	"github.com/deploymenttheory/go-job-composer/internal/export"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a job document and write it to a file",
	Long: `Export generates the document for a job configuration, validates it and writes
<job id>.xml into the export directory, optionally compressed, with a checksum file
alongside. Invalid documents are refused unless --force is given.`,
	Example: `  go-job-composer export -f job.yaml --dir out --compression xz --checksum blake2b`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		for flag, key := range map[string]string{
			"dir":         "export.dir",
			"compression": "export.compression",
			"checksum":    "export.checksum",
			"force":       "export.force",
			"manifest":    "export.manifest",
		} {
			if !flags.Changed(flag) {
				continue
			}
			value := flags.Lookup(flag).Value.String()
			if flag == "compression" {
				format, err := compression.ParseFormat(value)
				if err != nil {
					return err
				}
				value = string(format)
			}
			if err := config.Set(key, value); err != nil {
				return err
			}
		}

		cfg, err := jobmodel.Load(exportFile)
		if err != nil {
			return err
		}

		opts := export.Options{
			Dir:         config.Instance.Export.Dir,
			Compression: compression.Format(config.Instance.Export.Compression),
			Checksum:    cryptoutil.HashAlgorithm(config.Instance.Export.Checksum),
			Force:       config.Instance.Export.Force,
			Manifest:    config.Instance.Export.Manifest,
		}

		result, err := export.Export(cfg, opts)
		if err != nil {
			if result != nil && stderrors.Is(err, errors.ErrInvalidDocument) {
				fmt.Fprint(cmd.ErrOrStderr(), jobxml.FormatReport(result.Validation))
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Exported %s (%d bytes)\n", result.Path, result.Bytes)
		if result.ChecksumPath != "" {
			fmt.Fprintf(out, "Checksum %s written to %s\n", result.Checksum, result.ChecksumPath)
		}
		if result.ManifestPath != "" {
			fmt.Fprintf(out, "Manifest written to %s\n", result.ManifestPath)
		}
		if !result.Validation.IsValid {
			fmt.Fprintf(out, "Warning: document has %d validation error(s)\n", len(result.Validation.Errors))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "job configuration file (YAML or JSON)")
	exportCmd.Flags().String("dir", ".", "directory to write the document to")
	exportCmd.Flags().String("compression", string(compression.FormatNone), "compression: none, gzip, bzip2 or xz")
	exportCmd.Flags().String("checksum", string(cryptoutil.SHA256), "checksum file: sha256, blake2b or none")
	exportCmd.Flags().Bool("force", false, "write the document even when it fails validation")
	exportCmd.Flags().Bool("manifest", false, "write a JSON manifest describing the export")
	_ = exportCmd.MarkFlagRequired("file")
}
