package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stuttgart-things/firstboot/internal/build"
	"github.com/stuttgart-things/firstboot/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "View a built Ignition configuration",
	Long:  `Decodes the data-URL file sources of a built Ignition configuration and prints every contained file, defaulting to the config under the standard build directory.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	path := filepath.Join("_build", filepath.FromSlash(build.IgnitionConfigPath))
	if len(args) > 0 {
		path = args[0]
	}

	config, err := inspect.Load(path)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	files, err := config.Files()
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Println("No files in configuration.")
		return
	}

	for _, file := range files {
		fmt.Println(progressStyle.Render(file.Path))
		fmt.Println(contentStyle.Render(strings.TrimRight(file.Content, "\n")))
		fmt.Println()
	}
}
