// Package tooling is the library entry point for generating, validating and exporting
// job definition documents without going through the command line.
package tooling

import (
	"fmt"

	compression "github.com/deploymenttheory/go-job-composer/internal/common/compressionutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/cryptoutil"
	"github.com/deploymenttheory/go-job-composer/internal/config"
	"github.com/deploymenttheory/go-job-composer/internal/export"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
	"github.com/deploymenttheory/go-job-composer/internal/jobxml"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

// Version of the tooling API and command line.
const Version = "0.1.0"

// Model and result types, re-exported for callers outside this module.
type (
	JobConfiguration  = jobmodel.JobConfiguration
	Step              = jobmodel.Step
	BatchletStep      = jobmodel.BatchletStep
	ChunkStep         = jobmodel.ChunkStep
	DecisionStep      = jobmodel.DecisionStep
	SplitStep         = jobmodel.SplitStep
	FlowStep          = jobmodel.FlowStep
	Transition        = jobmodel.Transition
	Property          = jobmodel.Property
	ValidationResult  = jobxml.ValidationResult
	ValidationError   = jobxml.ValidationError
	ValidationWarning = jobxml.ValidationWarning
	ExportOptions     = export.Options
	ExportResult      = export.Result
)

// InitOptions contains options for initializing the tooling API
type InitOptions struct {
	ConfigFile  string // Path to configuration file
	Debug       bool   // Enable debug logging
	LogFormat   string // Log format: "human" or "json"
	LogFile     string // Path to log file
	SuppressLog bool   // Suppress all logging
}

var initialized bool

// Initialize loads configuration and sets up logging. Calling it is optional: the
// document functions work without it, and ExportJob initializes with defaults.
func Initialize(options InitOptions) error {
	if initialized {
		return nil
	}

	configErr := config.Initialize(options.ConfigFile)

	if options.Debug {
		if err := config.Set("debug", true); err != nil {
			return err
		}
	}
	if options.LogFormat != "" {
		if err := config.Set("log_format", options.LogFormat); err != nil {
			return err
		}
	}
	if options.LogFile != "" {
		if err := config.Set("log_file", options.LogFile); err != nil {
			return err
		}
	}

	if !options.SuppressLog {
		logConfig := logger.LoggerConfig{
			Debug:     config.Instance.Debug,
			LogFormat: config.Instance.LogFormat,
			LogFile:   config.Instance.LogFile,
		}
		if err := logger.InitLogger(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.LogInfo("Tooling API initialized", map[string]interface{}{
			"config_file": config.ConfigFile,
			"debug":       config.Instance.Debug,
			"log_format":  config.Instance.LogFormat,
		})
		if configErr != nil {
			logger.LogWarn("Configuration initialization warning", map[string]interface{}{
				"error": configErr.Error(),
			})
		}
	}

	initialized = true
	return nil
}

// DefaultOptions returns the default initialization options
func DefaultOptions() InitOptions {
	return InitOptions{
		LogFormat:   "human",
		SuppressLog: true,
	}
}

// GenerateJobXML renders a job configuration as an XML document.
func GenerateJobXML(cfg *JobConfiguration) string {
	return jobxml.Generate(cfg)
}

// ValidateJobXML checks an XML job document.
func ValidateJobXML(document string) ValidationResult {
	return jobxml.Validate(document)
}

// FormatValidationReport renders a validation result as a human readable report.
func FormatValidationReport(result ValidationResult) string {
	return jobxml.FormatReport(result)
}

// LoadJobConfiguration reads a YAML or JSON job configuration file.
func LoadJobConfiguration(path string) (*JobConfiguration, error) {
	return jobmodel.Load(path)
}

// ParseJobConfiguration decodes a YAML or JSON job configuration.
func ParseJobConfiguration(data []byte) (*JobConfiguration, error) {
	return jobmodel.Parse(data)
}

// DefaultExportOptions returns export options taken from the loaded configuration.
func DefaultExportOptions() ExportOptions {
	if !initialized {
		_ = Initialize(DefaultOptions())
	}

	return ExportOptions{
		Dir:         config.Instance.Export.Dir,
		Compression: compression.Format(config.Instance.Export.Compression),
		Checksum:    cryptoutil.HashAlgorithm(config.Instance.Export.Checksum),
		Force:       config.Instance.Export.Force,
		Manifest:    config.Instance.Export.Manifest,
	}
}

// ExportJob generates, validates and writes the document for cfg. Invalid documents are
// refused unless opts.Force is set.
func ExportJob(cfg *JobConfiguration, opts ExportOptions) (*ExportResult, error) {
	if !initialized {
		if err := Initialize(DefaultOptions()); err != nil {
			return nil, fmt.Errorf("failed to initialize tooling API: %w", err)
		}
	}
	return export.Export(cfg, opts)
}

// GetVersion returns the current version of the tooling API
func GetVersion() string {
	return Version
}

// Shutdown flushes buffered log output.
func Shutdown() error {
	if initialized {
		logger.LogInfo("Tooling API shutting down", nil)
		_ = logger.Sync()
	}
	return nil
}
