// Package cli implements the spendscan command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openaudit/spendscan/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "spendscan",
	Short: "Spendscan - youth justice spending transparency pipeline",
	Long: `Spendscan extracts youth justice budget allocations from published
government documents: budget paper PDFs, service delivery statements,
media releases, and answers to questions on notice.

It locates relevant passages, normalizes dollar amounts, classifies
spending as detention or community, and reports the split for a fiscal
year so the numbers can be checked against the source documents.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("spendscan v0.3.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.spendscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and SPENDSCAN_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.spendscan")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SPENDSCAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: environment defaults
// from config.Load overlaid with any values set in the config file.
func loadConfig() config.Config {
	cfg := config.Load()

	overlayString(&cfg.Port, "port")
	overlayString(&cfg.StoreDriver, "store_driver")
	overlayString(&cfg.DatabaseURL, "database_url")
	overlayString(&cfg.SupabaseURL, "supabase_url")
	overlayString(&cfg.SupabaseKey, "supabase_key")
	overlayString(&cfg.APIKey, "api_key")
	overlayString(&cfg.DefaultFiscalYear, "default_fiscal_year")
	overlayString(&cfg.KeywordsFile, "keywords_file")
	overlayString(&cfg.UserAgent, "user_agent")
	overlayString(&cfg.DailyRunSpec, "daily_run_spec")
	overlayString(&cfg.WeeklyReportSpec, "weekly_report_spec")
	overlayString(&cfg.SMTPHost, "smtp_host")
	overlayString(&cfg.SMTPUser, "smtp_user")
	overlayString(&cfg.SMTPPass, "smtp_pass")
	overlayString(&cfg.EmailFrom, "email_from")
	overlayString(&cfg.EmailTo, "email_to")
	if viper.IsSet("smtp_port") {
		cfg.SMTPPort = viper.GetInt("smtp_port")
	}
	if viper.IsSet("index_urls") {
		cfg.IndexURLs = viper.GetStringSlice("index_urls")
	}
	if viper.IsSet("feed_urls") {
		cfg.FeedURLs = viper.GetStringSlice("feed_urls")
	}

	return cfg
}

func overlayString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

// newLogger builds the process logger. Verbose mode lowers the level
// to debug. Log output goes to stderr so command output stays clean.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
