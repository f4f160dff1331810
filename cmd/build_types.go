package cmd

// BuildConfig holds configuration for the build command
type BuildConfig struct {
	// Input configuration
	EnvFile    string
	ValuesFile string

	// Template and output configuration
	TemplatesDir string
	OutputDir    string
	DryRun       bool

	// Mode control
	Interactive bool
}
