package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	outputDir    string
	templatesDir string
	envFile      string
	valuesFile   string
	dryRun       bool

	// Mode flags
	interactive    bool
	nonInteractive bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the provisioning artifacts",
	Long:  `Loads the required secrets from the environment, validates them, renders the Combustion script and Ignition configuration, and writes both under the output directory.`,
	Run:   runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "_build", "Output directory for rendered artifacts")
	buildCmd.Flags().StringVarP(&templatesDir, "templates-dir", "t", "templates", "Directory containing the template sources")
	buildCmd.Flags().StringVarP(&envFile, "env-file", "e", "", "Optional dotenv file merged under the environment")
	buildCmd.Flags().StringVarP(&valuesFile, "values-file", "f", "", "Optional YAML file with non-secret overrides")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print output without writing files")

	// Mode flags
	buildCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Force interactive mode")
	buildCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Force non-interactive mode")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	fmt.Println(logo)

	config := &BuildConfig{
		OutputDir:    outputDir,
		TemplatesDir: templatesDir,
		EnvFile:      envFile,
		ValuesFile:   valuesFile,
		DryRun:       dryRun,
	}

	// Determine mode
	if nonInteractive {
		config.Interactive = false
	} else if interactive {
		config.Interactive = true
	} else {
		// Auto-detect: interactive if TTY, non-interactive otherwise
		config.Interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	var err error
	if config.Interactive {
		err = runBuildInteractive(config)
	} else {
		err = runBuildNonInteractive(config)
	}

	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
