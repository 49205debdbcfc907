package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/common/fsutil"
	"github.com/deploymenttheory/go-job-composer/internal/common/osutil"
)

const (
	// AppName is the application name used for config files and directories
	AppName = "go-job-composer"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "JOB_COMPOSER"
)

// AppConfig holds the application configuration
type AppConfig struct {
	// Core settings
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=human json"`
	LogFile   string `mapstructure:"log_file"`

	// Export settings used by the export command
	Export struct {
		Dir         string `mapstructure:"dir" validate:"required"`
		Compression string `mapstructure:"compression" validate:"oneof=none gzip bzip2 xz"`
		Checksum    string `mapstructure:"checksum" validate:"oneof=none sha256 blake2b"`
		Force       bool   `mapstructure:"force"`
		Manifest    bool   `mapstructure:"manifest"`
	} `mapstructure:"export"`

	// Report settings used by the validate command
	Report struct {
		Output string `mapstructure:"output" validate:"oneof=text json plist"`
	} `mapstructure:"report"`
}

// Global variables
var (
	// Global configuration instance
	Instance AppConfig

	// Status indicators
	ConfigLoaded bool
	ConfigFile   string

	// Viper instance
	v *viper.Viper

	initOnce sync.Once
	validate = validator.New()
)

// Initialize sets up the configuration system. Only the first call has any effect.
func Initialize(cfgFile string) error {
	var err error

	initOnce.Do(func() {
		err = load(cfgFile)
	})

	return err
}

// Reload discards the current configuration and loads it again from cfgFile.
func Reload(cfgFile string) error {
	initOnce.Do(func() {})
	return load(cfgFile)
}

func load(cfgFile string) error {
	loadDotEnv()

	v = viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		addSearchPaths(v)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var loadErr error
	if readErr := v.ReadInConfig(); readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(readErr, &notFound) {
			loadErr = fmt.Errorf("%w: %s", errors.ErrConfigParseError, readErr.Error())
		}
		ConfigLoaded = false
		ConfigFile = ""
	} else {
		ConfigLoaded = true
		ConfigFile = v.ConfigFileUsed()
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrConfigParseError, err.Error())
	}
	if err := Validate(&cfg); err != nil {
		return err
	}
	Instance = cfg

	return loadErr
}

// Validate checks the configuration values against their allowed domains.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if stderrors.As(err, &validationErrs) {
			msgs := make([]string, 0, len(validationErrs))
			for _, e := range validationErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (%v)", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("%w: %s", errors.ErrConfigInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %s", errors.ErrConfigInvalid, err.Error())
	}
	return nil
}

// Set overrides a configuration key, used for command line flags.
func Set(key string, value interface{}) error {
	if v == nil {
		return errors.ErrNotInitialized
	}
	previous := v.Get(key)
	v.Set(key, value)

	var cfg AppConfig
	err := v.Unmarshal(&cfg)
	if err != nil {
		err = fmt.Errorf("%w: %s", errors.ErrConfigParseError, err.Error())
	} else {
		err = Validate(&cfg)
	}
	if err != nil {
		// keep the last valid value in effect
		v.Set(key, previous)
		return err
	}
	Instance = cfg
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("log_file", "")

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.compression", "none")
	v.SetDefault("export.checksum", "sha256")
	v.SetDefault("export.force", false)
	v.SetDefault("export.manifest", false)

	v.SetDefault("report.output", "text")
}

// addSearchPaths adds config search paths
func addSearchPaths(v *viper.Viper) {
	v.AddConfigPath(".")

	if configDir, err := fsutil.GetConfigDir(AppName); err == nil {
		v.AddConfigPath(configDir)
	}

	if osutil.IsRunningInPipeline() || osutil.IsContainerized() {
		v.AddConfigPath(filepath.Join("/etc", AppName))
	}
}

// loadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	envFile := os.Getenv(EnvPrefix + "_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if fsutil.FileExists(envFile) {
		_ = godotenv.Load(envFile)
	}
}
