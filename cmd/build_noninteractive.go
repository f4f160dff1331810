package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/stuttgart-things/firstboot/internal/build"
	"github.com/stuttgart-things/firstboot/internal/envfile"
	"github.com/stuttgart-things/firstboot/internal/values"
)

// runBuildNonInteractive runs the build command in non-interactive mode
func runBuildNonInteractive(config *BuildConfig) error {
	env, err := collectEnv(config)
	if err != nil {
		return err
	}
	return executeBuild(config, env)
}

// collectEnv assembles the environment mapping the secrets are loaded
// from, merging an optional dotenv file under the process environment.
func collectEnv(config *BuildConfig) (map[string]string, error) {
	env := envfile.FromEnviron(os.Environ())

	if config.EnvFile != "" {
		merged, err := envfile.Merge(config.EnvFile, env)
		if err != nil {
			return nil, err
		}
		env = merged
	}

	return env, nil
}

// executeBuild runs the pipeline against an assembled environment and
// reports the outcome. Shared by both modes.
func executeBuild(config *BuildConfig, env map[string]string) error {
	var overrides map[string]any
	if config.ValuesFile != "" {
		parsed, err := values.ParseFile(config.ValuesFile)
		if err != nil {
			return err
		}
		overrides = parsed
	}

	fmt.Println(progressStyle.Render("Rendering provisioning artifacts..."))

	result, err := build.Run(build.Options{
		Env:          env,
		Values:       overrides,
		TemplatesDir: config.TemplatesDir,
		OutputDir:    config.OutputDir,
		DryRun:       config.DryRun,
	})
	if err != nil {
		return err
	}

	if config.DryRun {
		printDryRun(result)
		return nil
	}

	for _, path := range result.Written {
		fmt.Printf("Saved: %s\n", path)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Build complete: %d artifact(s) written to %s", len(result.Written), config.OutputDir)))
	return nil
}

// printDryRun displays what would be written without actually writing files
func printDryRun(result *build.Result) {
	fmt.Println("\n=== DRY RUN - No files written ===")

	for _, artifact := range result.Artifacts {
		fmt.Printf("Would write: %s (mode %o)\n", artifact.Path, artifact.Mode)
		fmt.Println(contentStyle.Render(strings.TrimSpace(string(artifact.Content))))
		fmt.Println()
	}
}
