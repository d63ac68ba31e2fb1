// This file handles CLI configuration: API key resolution from flags,
// environment variables, and .env files, plus optional defaults from an
// e2b-inspect.yml in the working directory.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	inspector "github.com/cm2435/e2b-sandbox-inspector"
)

const configFilename = "e2b-inspect.yml"

// fileConfig is the optional on-disk configuration.
type fileConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	DefaultTimeout int    `yaml:"default_timeout,omitempty"` // seconds
}

// loadFileConfig reads e2b-inspect.yml from the current directory. A missing
// file is not an error.
func loadFileConfig() (*fileConfig, error) {
	data, err := os.ReadFile(configFilename)
	if os.IsNotExist(err) {
		return &fileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFilename, err)
	}
	return &config, nil
}

// resolveAPIKey prefers the explicit flag over the environment. A .env file
// in the working directory is loaded first so E2B_API_KEY can live there.
func resolveAPIKey(cmd *cobra.Command) string {
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		return key
	}
	godotenv.Load()
	return os.Getenv("E2B_API_KEY")
}

// newInspector builds the blocking client from flags, environment, and the
// optional config file.
func newInspector(cmd *cobra.Command) (*inspector.Inspector, error) {
	config, err := loadFileConfig()
	if err != nil {
		return nil, err
	}

	var opts []inspector.ClientOption
	if config.BaseURL != "" {
		opts = append(opts, inspector.WithBaseURL(config.BaseURL))
	}
	if config.DefaultTimeout > 0 {
		opts = append(opts, inspector.WithDefaultTimeout(time.Duration(config.DefaultTimeout)*time.Second))
	}

	return inspector.NewInspector(resolveAPIKey(cmd), opts...)
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	return format
}
