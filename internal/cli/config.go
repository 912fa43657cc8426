package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/openaudit/spendscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage spendscan configuration",
	Long: `Manage spendscan configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SPENDSCAN_*)
3. Config file (~/.spendscan/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (env and defaults only)\n\n")
		}

		yamlData, err := yaml.Marshal(configView(cfg))
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default configuration file",
	Long:  `Create a configuration file at ~/.spendscan/config.yaml seeded with the current defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := home + "/.spendscan"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'spendscan config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(configView(config.Load()))
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := "# Spendscan configuration file.\n" +
			"#\n" +
			"# Configuration hierarchy (highest to lowest priority):\n" +
			"#   1. CLI flags\n" +
			"#   2. Environment variables (SPENDSCAN_*)\n" +
			"#   3. This config file\n" +
			"#   4. Built-in defaults\n" +
			"#\n" +
			"# Secrets (api_key, database_url, smtp_pass) are better kept in\n" +
			"# environment variables than in this file.\n\n"
		if err := os.WriteFile(configPath, append([]byte(header), yamlData...), 0600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Created configuration: %s\n", configPath)
		fmt.Printf("View it with: spendscan config show\n")
		return nil
	},
}

// configView maps the effective config onto the YAML keys the config
// file uses. Secrets are redacted for display, never echoed back.
func configView(cfg config.Config) map[string]any {
	return map[string]any{
		"port":                cfg.Port,
		"store_driver":        cfg.StoreDriver,
		"database_url":        redact(cfg.DatabaseURL),
		"supabase_url":        cfg.SupabaseURL,
		"supabase_key":        redact(cfg.SupabaseKey),
		"api_key":             redact(cfg.APIKey),
		"default_fiscal_year": cfg.DefaultFiscalYear,
		"keywords_file":       cfg.KeywordsFile,
		"user_agent":          cfg.UserAgent,
		"index_urls":          cfg.IndexURLs,
		"feed_urls":           cfg.FeedURLs,
		"daily_run_spec":      cfg.DailyRunSpec,
		"weekly_report_spec":  cfg.WeeklyReportSpec,
		"smtp_host":           cfg.SMTPHost,
		"smtp_port":           cfg.SMTPPort,
		"smtp_user":           cfg.SMTPUser,
		"smtp_pass":           redact(cfg.SMTPPass),
		"email_from":          cfg.EmailFrom,
		"email_to":            cfg.EmailTo,
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<set>"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
