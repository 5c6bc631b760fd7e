// Command sleuth investigates a person or a page across the web.
//
// Usage:
//
//	sleuth scan "Jon Smith"
//	sleuth scan https://github.com/jonsmith --save
//	sleuth serve --listen :8080
//	sleuth case export <id> --format yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "sleuth",
	Short: "Find and profile the online footprint of a name or URL",
	Long: `sleuth searches for a name or analyzes a URL, extracts account data from
profile pages, scores every hit and flags duplicates and likely fake profiles.

Settings come from flags, SLEUTH_* environment variables (a .env file is
loaded first) and sleuth.yaml, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if viper.GetBool("debug") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./sleuth.yaml or ~/.config/sleuth/sleuth.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.String("db", defaultDBPath(), "case database path")
	pf.Bool("no-cache", false, "disable the on-disk page cache")
	pf.Duration("cache-ttl", 7*24*time.Hour, "page cache time-to-live")
	pf.Bool("no-browser", false, "do not read session cookies from local browsers")
	pf.Bool("no-agent", false, "do not use the language model agent")
	mustBind("debug", pf.Lookup("debug"))
	mustBind("db", pf.Lookup("db"))
	mustBind("cache.disabled", pf.Lookup("no-cache"))
	mustBind("cache.ttl", pf.Lookup("cache-ttl"))
	mustBind("browser_cookies.disabled", pf.Lookup("no-browser"))
	mustBind("agent.disabled", pf.Lookup("no-agent"))

	viper.SetDefault("concurrency", 4)
	viper.SetDefault("min_score", 70)
	viper.SetDefault("duplicate_threshold", 0.8)
	viper.SetDefault("fetch_timeout", 30*time.Second)
	viper.SetDefault("agent.url", "http://localhost:11434")
	viper.SetDefault("agent.model", "llama2")
	viper.SetDefault("agent.max_concurrent", 3)
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("phone_region", "US")
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load() //nolint:errcheck // optional

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config") //nolint:errcheck // flag is registered above
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sleuth")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sleuth"))
		}
	}

	viper.SetEnvPrefix("SLEUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
		}
	}
}

func mustBind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sleuth.db"
	}
	return filepath.Join(dir, "sleuth", "cases.db")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
