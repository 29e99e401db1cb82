package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/mderval/gistfeed/internal/validator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var GistfeedVersion = "1.2.0"

var C *config

// Flat struct on purpose: the yaml decoder cannot address nested structs
// with dotted keys.
type config struct {
	LogLevel       string `yaml:"log-level"`
	LogFile        string `yaml:"log-file"`
	MetricsEnabled bool   `yaml:"metrics-enabled"`

	GithubUser     string `yaml:"github.user"`
	GithubPageSize int    `yaml:"github.page-size"`
	GithubAPIURL   string `yaml:"github.api-url"`
	GithubTimeout  int    `yaml:"github.timeout"`

	HttpHost    string `yaml:"http.host"`
	HttpPort    string `yaml:"http.port"`
	ExternalUrl string `yaml:"external-url"`

	SiteTitle   string `yaml:"site.title"`
	BuildOutput string `yaml:"build.output"`
}

func configWithDefaults() *config {
	c := &config{}

	c.LogLevel = "info"
	c.MetricsEnabled = false

	c.GithubPageSize = 100
	c.GithubAPIURL = "https://api.github.com"
	c.GithubTimeout = 8

	c.HttpHost = "0.0.0.0"
	c.HttpPort = "8090"

	c.SiteTitle = "Gists"
	c.BuildOutput = "dist"

	return c
}

func InitConfig(configPath string) error {
	// Default values
	c := configWithDefaults()

	file, err := os.Open(configPath)
	if err == nil {
		fmt.Println("Using config file: " + configPath)

		// Override default values with values from config.yml
		d := yaml.NewDecoder(file)
		if err = d.Decode(&c); err != nil {
			return err
		}
		defer file.Close()
	}

	// Override default values with environment variables (as yaml)
	configEnv := os.Getenv("CONFIG")
	if configEnv != "" {
		fmt.Println("Using config from environment variable: CONFIG")
		d := yaml.NewDecoder(strings.NewReader(configEnv))
		if err = d.Decode(&c); err != nil {
			return err
		}
	}

	C = c

	return nil
}

// Check validates the loaded configuration. The page size is deliberately
// not rejected here: values above the API maximum are capped by the client.
func Check() error {
	v := validator.NewValidator()

	if err := v.Var(C.GithubUser, "required,max=39,alphanumdash"); err != nil {
		return fmt.Errorf("github.user %q: %s", C.GithubUser, strings.TrimSpace(validator.ValidationMessages(&err)))
	}
	if C.GithubTimeout < 1 {
		return fmt.Errorf("github.timeout must be at least 1 second, got %d", C.GithubTimeout)
	}
	if C.GithubPageSize < 1 {
		return fmt.Errorf("github.page-size must be at least 1, got %d", C.GithubPageSize)
	}
	if _, err := url.Parse(C.GithubAPIURL); err != nil {
		return fmt.Errorf("github.api-url: %w", err)
	}

	return nil
}

func InitLog() {
	var level zerolog.Level
	level, err := zerolog.ParseLevel(C.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer = zerolog.MultiLevelWriter(zerolog.NewConsoleWriter())
	if C.LogFile != "" {
		file, err := os.OpenFile(C.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
		writer = zerolog.MultiLevelWriter(zerolog.NewConsoleWriter(), file)
	}

	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
