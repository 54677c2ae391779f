package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/terrasight/pkg/advisor"
	"github.com/user/terrasight/pkg/config"
)

var adviseMode string

var adviseCmd = &cobra.Command{
	Use:   "advise [path]",
	Short: "Generate best-practice recommendations for Terraform resources",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
			os.Exit(2)
		}
		resources, _, err := loadResources(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
			os.Exit(2)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			os.Exit(3)
		}

		mode := adviseMode
		if mode == "" {
			mode = cfg.Advisor.Mode
		}

		if mode == "llm" {
			text, err := advisor.GenerateLLMAdvice(cmd.Context(),
				cfg.GetAPIKey("gemini"), cfg.Advisor.Model, resources, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
				os.Exit(3)
			}
			fmt.Println(text)
			return
		}

		response := advisor.BuildAdvice(resources)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			os.Exit(3)
		}
	},
}

func init() {
	adviseCmd.Flags().StringVar(&adviseMode, "mode", "", "Advisor mode: rules or llm (default from config)")
	rootCmd.AddCommand(adviseCmd)
}
