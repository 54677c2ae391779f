package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/terrasight/pkg/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [path]",
	Short: "List the Terraform resources recognized in a path",
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

		inventory := parser.BuildInventory(resources)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(inventory); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Runtime failure: %v\n", err)
			os.Exit(3)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
