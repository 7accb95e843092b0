package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/riskibarqy/go-commitmsg/internal/gemini"
	"github.com/riskibarqy/go-commitmsg/internal/rules"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyAPIKey   = "api-key"
	KeyModel    = "model"
	KeyRules    = "rules"
	KeyFiles    = "files"
	KeyMaxBytes = "max-bytes"
	KeyTimeout  = "timeout"
	KeyLogLevel = "log-level"
	KeyConfig   = "config"
	KeyTemp     = "temperature"
)

const (
	// APIKeyEnv holds the Gemini credential.
	APIKeyEnv = gemini.APIKeyEnv
	envPrefix = "COMMITMSG"

	defaultTimeout  = 2 * time.Minute
	defaultLogLevel = "info"
	maxTemperature  = 2
)

// Options captures all user facing configuration.
type Options struct {
	APIKey     string
	Model      string
	RulesPath  string
	Files      []string
	MaxBytes   int
	Timeout    time.Duration
	LogLevel   string
	ConfigFile string
	// Temperature is nil unless set explicitly, leaving the model default.
	Temperature *float32
}

// RegisterFlags declares the command line flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringArray(KeyFiles, nil, "Restrict the staged diff to these paths (repeatable; trailing arguments are paths too)")
	fs.String(KeyModel, gemini.DefaultModel, "Gemini model used for commit generation")
	fs.String(KeyRules, rules.DefaultPath, "Path of the commit message rules file")
	fs.Int(KeyMaxBytes, 0, "Maximum diff bytes to send to the model (0 sends everything)")
	fs.Duration(KeyTimeout, defaultTimeout, "Total timeout for the command (0 disables)")
	fs.String(KeyLogLevel, defaultLogLevel, "Diagnostic log level (debug, info, warn, error)")
	fs.String(KeyConfig, "", "Optional YAML config file")
	fs.Float32(KeyTemp, 0, "Sampling temperature between 0 and 2 (model default when unset)")
}

// NewViper returns a Viper instance reading COMMITMSG_* variables and the
// Gemini credential from the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyAPIKey, APIKeyEnv)
	return v
}

// BindFlags binds all flags in fs to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	var result error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// Load resolves and validates the options held by v. Paths given on the
// --files flag of fs are taken as-is, and args are appended to them.
func Load(fs *pflag.FlagSet, v *viper.Viper, args []string) (Options, error) {
	if file := strings.TrimSpace(v.GetString(KeyConfig)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, errors.WithHint(errors.Wrapf(err, "read config %s", file),
				"check that the file exists and is valid YAML")
		}
	}

	opts := Options{
		APIKey:     strings.TrimSpace(v.GetString(KeyAPIKey)),
		Model:      stringsFallback(v.GetString(KeyModel), gemini.DefaultModel),
		RulesPath:  stringsFallback(v.GetString(KeyRules), rules.DefaultPath),
		Files:      cleanPaths(v.GetStringSlice(KeyFiles)),
		MaxBytes:   v.GetInt(KeyMaxBytes),
		Timeout:    v.GetDuration(KeyTimeout),
		LogLevel:   stringsFallback(v.GetString(KeyLogLevel), defaultLogLevel),
		ConfigFile: v.GetString(KeyConfig),
	}

	if fs != nil && fs.Changed(KeyFiles) {
		files, err := fs.GetStringArray(KeyFiles)
		if err != nil {
			return Options{}, errors.Wrapf(err, "read --%s", KeyFiles)
		}
		opts.Files = cleanPaths(files)
	}
	opts.Files = append(opts.Files, cleanPaths(args)...)

	if v.IsSet(KeyTemp) {
		t := float32(v.GetFloat64(KeyTemp))
		if t < 0 || t > maxTemperature {
			return Options{}, errors.Newf("%s must be between 0 and %d, got %g", KeyTemp, maxTemperature, t)
		}
		opts.Temperature = &t
	}

	if opts.MaxBytes < 0 {
		return Options{}, errors.Newf("%s must not be negative, got %d", KeyMaxBytes, opts.MaxBytes)
	}
	if opts.Timeout < 0 {
		return Options{}, errors.Newf("%s must not be negative, got %s", KeyTimeout, opts.Timeout)
	}

	return opts, nil
}

func cleanPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringsFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
