package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/growbuf"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    growbuf.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "growbuf",
		Short: "Exercise growable containers",
		Long: `growbuf runs small scenarios against the growable containers: a text
builder, a string vector and a sorted dictionary. Sizes and the allocator come
from a YAML config file and GROWBUF_* environment variables
(for example GROWBUF_TEXT_CAPACITY=16 or GROWBUF_ALLOCATOR_KIND=arena).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newTextCmd(a), newStringsCmd(a), newDictCmd(a))
	return cmd
}

func (a *app) setup() error {
	logger, err := newLogger(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded",
		zap.String("path", a.configPath),
		zap.String("allocator", cfg.Allocator.Kind))
	return nil
}

// loadConfig layers GROWBUF_* environment variables over the file (or the
// defaults when path is empty).
func loadConfig(path string) (growbuf.Config, error) {
	base := growbuf.DefaultConfig()
	if path != "" {
		var err error
		if base, err = growbuf.LoadConfig(path); err != nil {
			return growbuf.Config{}, err
		}
	}
	raw, err := yaml.Marshal(base)
	if err != nil {
		return growbuf.Config{}, fmt.Errorf("encode config: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return growbuf.Config{}, fmt.Errorf("read config: %w", err)
	}
	v.SetEnvPrefix("GROWBUF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg growbuf.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return growbuf.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return growbuf.Config{}, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func (a *app) options() []growbuf.Option {
	return []growbuf.Option{growbuf.WithLogger(a.logger)}
}
