package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Collector CollectorConfig `toml:"collector"`
	Jira      JiraConfig      `toml:"jira"`
	Gateway   GatewayConfig   `toml:"gateway"`
	Output    OutputConfig    `toml:"output"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
}

type CollectorConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
}

type JiraConfig struct {
	BaseURL  string `toml:"base_url"`
	Username string `toml:"username"`
	APIToken string `toml:"api_token"`
	Timeout  int    `toml:"timeout"`
	PageSize int    `toml:"page_size"`
}

type GatewayConfig struct {
	Provider        string `toml:"provider"`
	URL             string `toml:"url"`
	Model           string `toml:"model"`
	Timeout         int    `toml:"timeout"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
}

type OutputConfig struct {
	Directory string `toml:"directory"`
	Format    string `toml:"format"`
}

type StorageConfig struct {
	DatabasePath string `toml:"database_path"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
}

func DefaultConfig() *Config {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]

	defaultDBPath := filepath.Join(execDir, "data", execName+".db")

	return &Config{
		Collector: CollectorConfig{
			Name:        execName,
			Environment: "development",
		},
		Jira: JiraConfig{
			Timeout:  30,
			PageSize: 100,
		},
		Gateway: GatewayConfig{
			Provider: "ollama",
			URL:      "http://localhost:11434",
			Model:    "llama3.2:latest",
			Timeout:  120,
		},
		Output: OutputConfig{
			Directory: "output",
			Format:    "markdown",
		},
		Storage: StorageConfig{
			DatabasePath: defaultDBPath,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "both",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		// Auto-detect config file
		execPath, _ := os.Executable()
		execDir := filepath.Dir(execPath)
		execName := filepath.Base(execPath)
		execName = execName[:len(execName)-len(filepath.Ext(execName))]

		possiblePaths := []string{
			filepath.Join(execDir, execName+".toml"),
			filepath.Join(execDir, "config.toml"),
			"config.toml",
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			applyEnvOverrides(config)
			return config, nil
		}
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if jiraURL := os.Getenv("JIRA_URL"); jiraURL != "" {
		config.Jira.BaseURL = jiraURL
	}
	if jiraEmail := os.Getenv("JIRA_EMAIL"); jiraEmail != "" {
		config.Jira.Username = jiraEmail
	}
	if jiraToken := os.Getenv("JIRA_API_TOKEN"); jiraToken != "" {
		config.Jira.APIToken = jiraToken
	}

	if gatewayURL := os.Getenv("GATEWAY_URL"); gatewayURL != "" {
		config.Gateway.URL = gatewayURL
	}
	if model := os.Getenv("GATEWAY_MODEL"); model != "" {
		config.Gateway.Model = model
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Gateway.AnthropicAPIKey = apiKey
	}

	if outputDir := os.Getenv("OUTPUT_DIR"); outputDir != "" {
		config.Output.Directory = outputDir
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.Storage.DatabasePath = dbPath
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		config.Logging.Output = logOutput
	}

	if pageSize := os.Getenv("JIRA_PAGE_SIZE"); pageSize != "" {
		if n, err := strconv.Atoi(pageSize); err == nil {
			config.Jira.PageSize = n
		}
	}
}

func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path is required")
	}

	if c.Jira.PageSize <= 0 {
		c.Jira.PageSize = 100
	}
	if c.Jira.Timeout <= 0 {
		c.Jira.Timeout = 30
	}
	if c.Gateway.Timeout <= 0 {
		c.Gateway.Timeout = 120
	}

	validProviders := []string{"ollama", "anthropic"}
	validProvider := false
	for _, p := range validProviders {
		if c.Gateway.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid gateway provider: %s", c.Gateway.Provider)
	}

	validFormats := []string{"markdown", "html"}
	validFormat := false
	for _, f := range validFormats {
		if c.Output.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validOutputs := []string{"console", "file", "both"}
	validOutput := false
	for _, output := range validOutputs {
		if c.Logging.Output == output {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	return nil
}

// ValidateJiraAccess checks the fields a live collection run needs. Kept
// separate from Validate so offline commands (stats, validate) still work
// without credentials.
func (c *Config) ValidateJiraAccess() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira base_url is required (or set JIRA_URL)")
	}
	if c.Jira.Username == "" {
		return fmt.Errorf("jira username is required (or set JIRA_EMAIL)")
	}
	if c.Jira.APIToken == "" {
		return fmt.Errorf("jira api_token is required (or set JIRA_API_TOKEN)")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Collector.Environment == "production"
}
