package build

import (
	"path/filepath"

	"github.com/stuttgart-things/firstboot/internal/combustion"
	"github.com/stuttgart-things/firstboot/internal/ignition"
	"github.com/stuttgart-things/firstboot/internal/output"
	"github.com/stuttgart-things/firstboot/internal/render"
	"github.com/stuttgart-things/firstboot/internal/secrets"
	"github.com/stuttgart-things/firstboot/internal/values"
)

// Artifact paths relative to both the templates dir and the output root,
// mirroring the boot-medium layout.
const (
	CombustionScriptPath = "combustion/script"
	IgnitionConfigPath   = "ignition/config.ign"
)

// Options configures a single build run.
type Options struct {
	// Env is the environment mapping the secrets are loaded from.
	Env map[string]string
	// Values holds non-secret overrides merged over the built-in defaults.
	Values map[string]any
	// TemplatesDir is the root of the version-controlled template sources.
	TemplatesDir string
	// OutputDir is the build root the artifacts are written under.
	OutputDir string
	// DryRun renders everything but writes nothing.
	DryRun bool
}

// Result lists what a successful run produced.
type Result struct {
	Artifacts []output.Artifact
	Written   []string
}

// Run executes the full pipeline: load secrets, validate them, render both
// provisioning artifacts, write them under the output root. The first error
// from any stage aborts the run; all rendering happens in memory, so a
// failed run before the write stage leaves no output behind.
func Run(opts Options) (*Result, error) {
	set, err := secrets.Load(opts.Env)
	if err != nil {
		return nil, err
	}
	if err := secrets.Validate(set); err != nil {
		return nil, err
	}

	// Secrets are merged last so a values file can never shadow one.
	bindings := values.Merge(values.Merge(values.Defaults, opts.Values), set.Bindings())

	engine := render.NewEngine()
	if err := engine.Load(combustion.TemplateName, filepath.Join(opts.TemplatesDir, CombustionScriptPath)); err != nil {
		return nil, err
	}
	if err := engine.Load(ignition.TemplateName, filepath.Join(opts.TemplatesDir, IgnitionConfigPath)); err != nil {
		return nil, err
	}

	script, err := combustion.NewBuilder(engine).Build(bindings)
	if err != nil {
		return nil, err
	}
	config, err := ignition.NewBuilder(engine, opts.TemplatesDir).Build(bindings)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: []output.Artifact{
			{Path: CombustionScriptPath, Content: script, Mode: 0o755},
			{Path: IgnitionConfigPath, Content: config, Mode: 0o644},
		},
	}

	if opts.DryRun {
		return result, nil
	}

	result.Written, err = output.Write(opts.OutputDir, result.Artifacts)
	if err != nil {
		return nil, err
	}

	return result, nil
}
