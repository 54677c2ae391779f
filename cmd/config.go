package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/terrasight/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (scanners, advisor, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Set the API key for the LLM advisor provider",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")

		if provider == "" || key == "" {
			fmt.Println("Error: --provider and --key are required")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cfg.SetAPIKey(strings.ToLower(provider), key)
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("API key saved for provider: %s\n", provider)
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Set the advisor mode and model",
	Run: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("mode")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		if mode != "" {
			cfg.Advisor.Mode = strings.ToLower(mode)
		}
		if model != "" {
			cfg.Advisor.Model = model
		}

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Advisor configuration updated: Mode=%s, Model=%s\n", cfg.Advisor.Mode, cfg.Advisor.Model)
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration (keys masked)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		fmt.Printf("Scanner timeout: %s\n", cfg.Timeout())
		names := make([]string, 0, len(cfg.Scanners))
		for name := range cfg.Scanners {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("Scanner %-10s enabled=%t\n", name, cfg.Scanners[name])
		}
		fmt.Printf("Advisor: mode=%s model=%s\n", cfg.Advisor.Mode, cfg.Advisor.Model)
		for provider := range cfg.Providers {
			masked := "(not set)"
			if cfg.GetAPIKey(provider) != "" {
				masked = "********"
			}
			fmt.Printf("Provider %s: api_key=%s\n", provider, masked)
		}
	},
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "gemini", "Provider name")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("mode", "", "", "Advisor mode (rules or llm)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
