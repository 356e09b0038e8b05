package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/exasolitaire/solitaire/solver"
)

const (
	ConfigDebug                 = "debug"
	ConfigDataPath              = "data-path"
	ConfigConfigFile            = "config-file"
	ConfigSolveTimeLimit        = "solve-time-limit"
	ConfigDepthLimit            = "depth-limit"
	ConfigVisitedMemoryFraction = "visited-memory-fraction"
	ConfigProgressInterval      = "progress-interval"
	ConfigNatsURL               = "nats-url"
	ConfigBotChannel            = "bot-channel"
	ConfigStorePath             = "store-path"
	ConfigCPUProfile            = "cpu-profile"
	ConfigMemProfile            = "mem-profile"
	ConfigParallelism           = "parallelism"
	ConfigLambdaFunction        = "lambda-function"
)

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only default values. It does not
// look at flags or the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigSolveTimeLimit, int(solver.DefaultTimeLimit/time.Second))
	c.SetDefault(ConfigDepthLimit, solver.DefaultDepthLimit)
	c.SetDefault(ConfigVisitedMemoryFraction, 0.25)
	c.SetDefault(ConfigProgressInterval, 100000)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigBotChannel, "solitaire.bot")
	c.SetDefault(ConfigStorePath, "./data/solutions.db")
	c.SetDefault(ConfigParallelism, 4)
	c.SetDefault(ConfigLambdaFunction, "")
}

// Load reads flags from args, then SOLITAIRE_ environment variables, then
// an optional config file. Flags win over the environment, which wins over
// the file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("solitaire", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigDataPath, "./data", "directory holding puzzle collections")
	fs.String(ConfigConfigFile, "", "optional YAML config file")
	fs.Int(ConfigSolveTimeLimit, int(solver.DefaultTimeLimit/time.Second), "solve time limit in seconds")
	fs.Int(ConfigDepthLimit, solver.DefaultDepthLimit, "longest move sequence the solver explores")
	fs.Float64(ConfigVisitedMemoryFraction, 0.25, "fraction of system memory the visited set may use; 0 for no cap")
	fs.Int(ConfigProgressInterval, 100000, "log solver progress every this many expansions; 0 to disable")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigBotChannel, "solitaire.bot", "the NATS subject the solve service listens on")
	fs.String(ConfigStorePath, "./data/solutions.db", "sqlite file caching solutions; empty to disable")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigMemProfile, "", "file to write a memory profile to")
	fs.Int(ConfigParallelism, 4, "concurrent solves in batch mode")
	fs.String(ConfigLambdaFunction, "", "name of the serverless solve function; empty to use NATS")
	// the shell passes its own command line through; only the flags above
	// are of interest here.
	fs.ParseErrorsWhitelist.UnknownFlags = true
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("SOLITAIRE")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left over after Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basepath,
// usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigStorePath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// SanitizedSettings returns all settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if u, ok := settings[ConfigNatsURL].(string); ok && strings.Contains(u, "@") {
		settings[ConfigNatsURL] = "<redacted>"
	}
	return settings
}

// SolverOptions maps the solve settings onto solver options.
func (c *Config) SolverOptions() solver.Options {
	return solver.Options{
		TimeLimit:        time.Duration(c.GetInt(ConfigSolveTimeLimit)) * time.Second,
		DepthLimit:       c.GetInt(ConfigDepthLimit),
		MaxVisited:       solver.VisitedLimitFromMemory(c.GetFloat64(ConfigVisitedMemoryFraction)),
		ProgressInterval: uint64(max(c.GetInt(ConfigProgressInterval), 0)),
	}
}
