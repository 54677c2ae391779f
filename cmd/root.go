package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "terrasight",
	Short: "Terraform security posture scanner and advisor",
	Long: `Terrasight parses Terraform configurations, runs external security
scanners (checkov, tfsec, terrascan) against them, reconciles every finding
back to the declared resource it concerns, and produces a single scored
report.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if DebugMode {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
