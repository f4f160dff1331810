package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "firstboot",
	Short: "First-boot provisioning artifact builder",
	Long:  `firstboot renders the Combustion script and Ignition configuration for the home-server install from version-controlled templates and environment-sourced secrets.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		_ = cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
