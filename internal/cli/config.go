package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/shiji/internal/model"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

var initPath string

// setDefaults registers every configuration key so that env variables and
// partial config files merge over the built-in defaults.
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("corpus.dir", cfg.Corpus.Dir)
	v.SetDefault("corpus.pattern", cfg.Corpus.Pattern)
	v.SetDefault("corpus.table_chapters", cfg.Corpus.TableChapters)

	v.SetDefault("data.rulers", cfg.Data.Rulers)
	v.SetDefault("data.titles", cfg.Data.Titles)
	v.SetDefault("data.chapters", cfg.Data.Chapters)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.html", cfg.Output.HTML)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	v.SetDefault("resolver.window", cfg.Resolver.Window)
	v.SetDefault("resolver.tolerance", cfg.Resolver.Tolerance)
	v.SetDefault("resolver.max_recover_year", cfg.Resolver.MaxRecoverYear)
	v.SetDefault("resolver.duration_markers", cfg.Resolver.DurationMarkers)
	v.SetDefault("resolver.context_chars", cfg.Resolver.ContextChars)

	v.SetDefault("disambig.preceding_window", cfg.Disambig.PrecedingWindow)
	v.SetDefault("disambig.nearby_window", cfg.Disambig.NearbyWindow)
	v.SetDefault("disambig.narrow_window", cfg.Disambig.NarrowWindow)
	v.SetDefault("disambig.cooccur_window", cfg.Disambig.CooccurWindow)

	v.SetDefault("aliases.strict", cfg.Aliases.Strict)
}

// loadConfig resolves the effective configuration: flags, then SHIJI_* env
// variables, then the config file, then defaults.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	return cfg, nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Shiji configuration",
	Long: `Manage Shiji configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SHIJI_*, e.g. SHIJI_RESOLVER_WINDOW)
3. Config file (./shiji.yaml or ~/.shiji/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, env vars and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", f)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a configuration file holding every option with its default value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(initPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'shiji config show' to view it, or delete it first to recreate", initPath)
		}

		if dir := filepath.Dir(initPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("error creating config directory: %w", err)
			}
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		var b strings.Builder
		b.WriteString("# Shiji configuration file\n")
		b.WriteString("#\n")
		b.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
		b.WriteString("#   1. CLI flags\n")
		b.WriteString("#   2. Environment variables (SHIJI_*)\n")
		b.WriteString("#   3. This config file\n")
		b.WriteString("#   4. Built-in defaults\n")
		b.WriteString("#\n")
		b.WriteString("# Empty data paths use the curated tables built into the binary.\n\n")
		b.Write(yamlData)

		if err := os.WriteFile(initPath, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", initPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&initPath, "path", "shiji.yaml", "where to write the config file")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
