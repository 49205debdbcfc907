package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-job-composer/internal/config"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

// errDocumentInvalid signals a failed validation through the exit status. The findings
// themselves have already been printed.
var errDocumentInvalid = stderrors.New("job document is invalid")

var cfgFile string

// rootCmd represents the base CLI command
var rootCmd = &cobra.Command{
	Use:   "go-job-composer",
	Short: "Generate and validate batch job XML definitions",
	Long: `go-job-composer turns a batch job configuration written in YAML or JSON into an
XML job definition document, validates such documents against structure, content,
attribute and best-practice rules, and exports them to files.

Steps may be batchlets, chunks (optionally partitioned), decisions, splits or flows,
and flows and splits nest to any depth.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// If config file was explicitly specified via flag, reload
		if cmd.Flags().Changed("config") && cfgFile != "" {
			if err := config.Reload(cfgFile); err != nil {
				return err
			}
		}

		// CLI flags override config settings
		if cmd.Flags().Changed("debug") {
			debug, _ := cmd.Flags().GetBool("debug")
			if err := config.Set("debug", debug); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("log-format") {
			logFormat, _ := cmd.Flags().GetString("log-format")
			if err := config.Set("log_format", logFormat); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("log-file") {
			logFile, _ := cmd.Flags().GetString("log-file")
			if err := config.Set("log_file", logFile); err != nil {
				return err
			}
		}

		return logger.InitLogger(logger.LoggerConfig{
			Debug:     config.Instance.Debug,
			LogFormat: config.Instance.LogFormat,
			LogFile:   config.Instance.LogFile,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !stderrors.Is(err, errDocumentInvalid) {
			logger.LogError("Command execution failed", err, nil)
			rootCmd.PrintErrln("Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is search in standard locations)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "human", "Log format: json or human")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
