/*
Package config resolves the settings for an aa-greeting run from command line flags, the environment, and an optional
.env file.

Flags win over environment variables, which win over the flag defaults.
The access token is read from --token or WEBEX_TOKEN.
Other settings can be set through AA_GREETING_<FLAG> variables, e.g. AA_GREETING_API_URL.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIURL is the base URL of the Webex REST API.
	DefaultAPIURL = "https://webexapis.com/v1"
	// DefaultLogFile is where the run log is appended to.
	DefaultLogFile = "aa_greeting.log"
	// DefaultTimeout applies to each API request.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the number of API requests per second.
	DefaultRateLimit = 5.0

	envPrefix   = "AA_GREETING"
	tokenEnvVar = "WEBEX_TOKEN"
)

// Flag names shared between the command line and the environment.
const (
	FlagAPIURL    = "api-url"
	FlagDebug     = "debug"
	FlagDryRun    = "dry-run"
	FlagEnvFile   = "env-file"
	FlagLogFile   = "log-file"
	FlagRateLimit = "rate-limit"
	FlagReuse     = "reuse"
	FlagTimeout   = "timeout"
	FlagToken     = "token"
)

// Config holds the resolved settings for a run.
type Config struct {
	APIURL    string
	Debug     bool
	DryRun    bool
	LogFile   string
	RateLimit float64
	Reuse     bool
	Timeout   time.Duration
	Token     string
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(FlagToken, "", `Access token. If not provided it is read from the WEBEX_TOKEN environment variable`)
	fs.String(FlagAPIURL, DefaultAPIURL, "Base URL of the Webex API")
	fs.String(FlagLogFile, DefaultLogFile, "File the run log is appended to. Empty disables the run log")
	fs.String(FlagEnvFile, ".env", "Environment file to load before reading settings")
	fs.Duration(FlagTimeout, DefaultTimeout, "Timeout for each API request")
	fs.Float64(FlagRateLimit, DefaultRateLimit, "Maximum number of API requests per second")
	fs.Bool(FlagDryRun, false, "Don't upload or apply changes, just show what would be done")
	fs.Bool(FlagReuse, false, "Reuse an announcement with the same file name instead of uploading the greeting again")
	fs.Bool(FlagDebug, false, "Show debug output on the console")
}

// Load resolves the configuration from the flags in fs (registered via AddFlags), the environment, and the env file.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("%w: %w", errBindFlags, err)
	}

	if err := loadEnvFile(v.GetString(FlagEnvFile)); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(FlagToken, tokenEnvVar); err != nil {
		return nil, fmt.Errorf("%w: %w", errBindFlags, err)
	}

	cfg := &Config{
		APIURL:    strings.TrimRight(v.GetString(FlagAPIURL), "/"),
		Debug:     v.GetBool(FlagDebug),
		DryRun:    v.GetBool(FlagDryRun),
		LogFile:   v.GetString(FlagLogFile),
		RateLimit: v.GetFloat64(FlagRateLimit),
		Reuse:     v.GetBool(FlagReuse),
		Timeout:   v.GetDuration(FlagTimeout),
		Token:     strings.TrimSpace(v.GetString(FlagToken)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Token == "":
		return ErrMissingToken
	case c.APIURL == "":
		return NewInvalidSettingError(FlagAPIURL, c.APIURL)
	case c.Timeout <= 0:
		return NewInvalidSettingError(FlagTimeout, c.Timeout.String())
	case c.RateLimit <= 0:
		return NewInvalidSettingError(FlagRateLimit, fmt.Sprint(c.RateLimit))
	}
	return nil
}

// loadEnvFile loads variables from path into the environment without overriding ones already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", NewEnvFileError(path), err)
	}
	return nil
}
