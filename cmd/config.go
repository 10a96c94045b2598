package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
	"github.com/mattsolo1/grove-policyscan/pkg/logging"
	"github.com/mattsolo1/grove-policyscan/pkg/selector"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

const (
	configName = "policyscan"
	envPrefix  = "POLICYSCAN"
)

// Config is the structure of policyscan.yml.
type Config struct {
	Processor ProcessorConfig `yaml:"processor" mapstructure:"processor" json:"processor"`
	Dialog    DialogConfig    `yaml:"dialog" mapstructure:"dialog" json:"dialog"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch" json:"watch"`
	Notify    NotifyConfig    `yaml:"notify" mapstructure:"notify" json:"notify"`
	Log       logging.Config  `yaml:"log" mapstructure:"log" json:"log"`
}

// ProcessorConfig describes the external program that processes a file.
type ProcessorConfig struct {
	Command string        `yaml:"command" mapstructure:"command" json:"command" jsonschema:"description=Program to launch"`
	Args    []string      `yaml:"args" mapstructure:"args" json:"args,omitempty" jsonschema:"description=Arguments placed before the file path"`
	WorkDir string        `yaml:"work_dir" mapstructure:"work_dir" json:"work_dir,omitempty"`
	Env     []string      `yaml:"env" mapstructure:"env" json:"env,omitempty" jsonschema:"description=Extra environment entries for the processor"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout,omitempty" jsonschema:"type=string,description=Maximum run time such as 5m; 0 disables"`
}

// DialogConfig controls the file picker.
type DialogConfig struct {
	Backend         string `yaml:"backend" mapstructure:"backend" json:"backend,omitempty" jsonschema:"enum=auto,enum=zenity,enum=sqweek,enum=prompt"`
	Title           string `yaml:"title" mapstructure:"title" json:"title,omitempty"`
	RememberLastDir bool   `yaml:"remember_last_dir" mapstructure:"remember_last_dir" json:"remember_last_dir,omitempty"`
}

// WatchConfig controls the drop-folder mode.
type WatchConfig struct {
	Debounce    time.Duration `yaml:"debounce" mapstructure:"debounce" json:"debounce,omitempty" jsonschema:"type=string"`
	MaxParallel int           `yaml:"max_parallel" mapstructure:"max_parallel" json:"max_parallel,omitempty"`
}

// NotifyConfig controls desktop notifications.
type NotifyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled" json:"enabled,omitempty"`
}

// InvokerConfig converts the processor section for the invoker.
func (c *Config) InvokerConfig() invoker.Config {
	return invoker.Config{
		Command: c.Processor.Command,
		Args:    c.Processor.Args,
		WorkDir: c.Processor.WorkDir,
		Env:     c.Processor.Env,
		Timeout: c.Processor.Timeout,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("processor.command", "python")
	v.SetDefault("processor.args", []string{"../python_backend/policy_engine.py"})
	v.SetDefault("processor.work_dir", "")
	v.SetDefault("processor.env", []string{})
	v.SetDefault("processor.timeout", 5*time.Minute)
	v.SetDefault("dialog.backend", selector.BackendAuto)
	v.SetDefault("dialog.title", "Select a policy document")
	v.SetDefault("dialog.remember_last_dir", true)
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("watch.max_parallel", 2)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// loadConfig reads defaults, the .env file, the config file and
// POLICYSCAN_* environment variables, in increasing precedence. An explicit
// configPath must exist; otherwise a missing file is fine.
func loadConfig(configPath, envFile string) (*Config, string, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, "", fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Processor.Command) == "" {
		return errors.New("invalid configuration: processor.command is empty")
	}
	if c.Processor.Timeout < 0 {
		return fmt.Errorf("invalid configuration: processor.timeout %s is negative", c.Processor.Timeout)
	}
	switch c.Dialog.Backend {
	case "", selector.BackendAuto, selector.BackendZenity, selector.BackendSqweek, selector.BackendPrompt:
	default:
		return fmt.Errorf("invalid configuration: unknown dialog.backend %q", c.Dialog.Backend)
	}
	if c.Watch.MaxParallel < 1 {
		return fmt.Errorf("invalid configuration: watch.max_parallel must be at least 1, got %d", c.Watch.MaxParallel)
	}
	return nil
}
