package settings

import (
	"os"
	"strings"
)

// DefaultAPIURL is polled when apiUrl is blank.
const DefaultAPIURL = "https://randomuser.me/api/"

const (
	defaultEnvironment     = "production"
	defaultRefreshInterval = Minutes(5)
)

// Environment variables that seed the defaults layer.
const (
	EnvUserID             = "PURSE_USER_ID"
	EnvRepresentativeName = "PURSE_REPRESENTATIVE_NAME"
	EnvAPIURL             = "PURSE_API_URL"
	EnvEnvironment        = "PURSE_ENVIRONMENT"
)

// Settings is the persisted configuration record.
type Settings struct {
	Version            string  `json:"version" yaml:"version"`
	Environment        string  `json:"environment" yaml:"environment"`
	EnableLogs         bool    `json:"enableLogs" yaml:"enableLogs"`
	UserID             string  `json:"userId" yaml:"userId"`
	RepresentativeName string  `json:"representativeName" yaml:"representativeName"`
	Connected          bool    `json:"connected" yaml:"connected"`
	DevMode            bool    `json:"devMode" yaml:"devMode"`
	APIURL             string  `json:"apiUrl" yaml:"apiUrl"`
	APIRefreshInterval Minutes `json:"apiRefreshInterval" yaml:"apiRefreshInterval"`
}

// View is what Get returns: the record plus derived, non-persisted paths.
type View struct {
	Settings     `yaml:",inline"`
	LogsDir      string `json:"logsDir" yaml:"logsDir"`
	SettingsPath string `json:"settingsPath" yaml:"settingsPath"`
}

// Endpoint returns the URL to poll, falling back to DefaultAPIURL.
func (s Settings) Endpoint() string {
	if u := strings.TrimSpace(s.APIURL); u != "" {
		return u
	}
	return DefaultAPIURL
}

// Defaults returns the built-in record overlaid with environment values.
func Defaults() Settings {
	return Settings{
		Environment:        envOr(EnvEnvironment, defaultEnvironment),
		EnableLogs:         true,
		UserID:             envOr(EnvUserID, ""),
		RepresentativeName: envOr(EnvRepresentativeName, ""),
		APIURL:             envOr(EnvAPIURL, ""),
		APIRefreshInterval: defaultRefreshInterval,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
