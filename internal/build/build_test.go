package build

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stuttgart-things/firstboot/internal/render"
	"github.com/stuttgart-things/firstboot/internal/secrets"
)

const testScript = `#!/bin/bash
# combustion: network
echo 'root:{{.root_passwd}}' | chpasswd -e
echo 'admin:{{.admin_passwd}}' | chpasswd -e
echo -n '{{.disk_passwd}}' > /run/disk-passphrase
echo '{{.hostname}}' > /etc/hostname
`

const testConfig = `{
  "ignition": {"version": "3.4.0"},
  "passwd": {"users": [
    {"name": "root", "passwordHash": "{{.root_passwd}}"},
    {"name": "admin", "passwordHash": "{{.admin_passwd}}", "sshAuthorizedKeys": [{{range $i, $key := .admin_ssh_keys}}{{if $i}}, {{end}}"{{$key}}"{{end}}]}
  ]},
  "storage": {"files": [
    {"path": "/etc/users.oath", "mode": 384, "contents": {"source": "HOTP/T30/6 admin - {{.admin_otp_secret}}"}},
    {"path": "/etc/adguard-mac", "mode": 420, "contents": {"source": "{{.adguard_mac}}"}}
  ]}
}
`

func writeTemplates(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range map[string]string{
		CombustionScriptPath: testScript,
		IgnitionConfigPath:   testConfig,
	} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create templates dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write template: %v", err)
		}
	}
	return root
}

func fullEnv() map[string]string {
	return map[string]string{
		"ROOT_PASSWD":      "$6$abc$roothash",
		"ADMIN_PASSWD":     "$6$def$adminhash",
		"ADMIN_SSH_KEYS":   "key-a;key-b",
		"ADMIN_OTP_SECRET": "a1b2c3",
		"DISK_PASSWD":      "correct-horse",
		"ADGUARD_MAC":      "02:00:00:00:00:01",
	}
}

func testOptions(t *testing.T) Options {
	return Options{
		Env:          fullEnv(),
		TemplatesDir: writeTemplates(t),
		OutputDir:    filepath.Join(t.TempDir(), "_build"),
	}
}

func TestRun(t *testing.T) {
	opts := testOptions(t)

	result, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Written) != 2 {
		t.Fatalf("expected exactly 2 written files, got %d: %v", len(result.Written), result.Written)
	}

	script, err := os.ReadFile(filepath.Join(opts.OutputDir, CombustionScriptPath))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	for _, want := range []string{"$6$abc$roothash", "$6$def$adminhash", "correct-horse", "homeserver"} {
		if !strings.Contains(string(script), want) {
			t.Errorf("expected script to contain %q", want)
		}
	}
	if strings.Contains(string(script), "{{") {
		t.Error("script contains unresolved placeholder markers")
	}

	config, err := os.ReadFile(filepath.Join(opts.OutputDir, IgnitionConfigPath))
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	for _, want := range []string{"$6$abc$roothash", "key-a", "key-b"} {
		if !strings.Contains(string(config), want) {
			t.Errorf("expected config to contain %q", want)
		}
	}
	if strings.Contains(string(config), "key-a;key-b") {
		t.Error("delimiter leaked into rendered key entries")
	}
	if strings.Contains(string(config), "{{") {
		t.Error("config contains unresolved placeholder markers")
	}
}

func TestRun_MissingSecret(t *testing.T) {
	for _, spec := range secrets.Specs {
		t.Run(spec.Name, func(t *testing.T) {
			opts := testOptions(t)
			delete(opts.Env, spec.Name)

			_, err := Run(opts)
			var missing *secrets.MissingSecretError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingSecretError, got %T: %v", err, err)
			}
			if missing.Name != spec.Name {
				t.Errorf("expected error to name %s, got %s", spec.Name, missing.Name)
			}

			if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
				t.Error("failed run must not create output")
			}
		})
	}
}

func TestRun_EmptySecret(t *testing.T) {
	opts := testOptions(t)
	opts.Env["ADMIN_PASSWD"] = ""

	_, err := Run(opts)
	var empty *secrets.EmptySecretError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySecretError, got %T: %v", err, err)
	}

	if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
		t.Error("failed run must not create output")
	}
}

func TestRun_UndefinedTemplateVariable(t *testing.T) {
	opts := testOptions(t)
	script := filepath.Join(opts.TemplatesDir, CombustionScriptPath)
	if err := os.WriteFile(script, []byte("#!/bin/bash\necho '{{.mismatched_name}}'\n"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	_, err := Run(opts)
	var undefined *render.UndefinedVariableError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected UndefinedVariableError, got %T: %v", err, err)
	}
	if undefined.Key != "mismatched_name" {
		t.Errorf("expected error to name mismatched_name, got %q", undefined.Key)
	}

	if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
		t.Error("failed run must not create output")
	}
}

func TestRun_ValuesOverride(t *testing.T) {
	opts := testOptions(t)
	opts.Values = map[string]any{"hostname": "custom-host"}

	_, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	script, err := os.ReadFile(filepath.Join(opts.OutputDir, CombustionScriptPath))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	if !strings.Contains(string(script), "custom-host") {
		t.Error("expected values override to reach the template")
	}
}

func TestRun_ValuesCannotShadowSecret(t *testing.T) {
	opts := testOptions(t)
	opts.Values = map[string]any{"root_passwd": "attacker-controlled"}

	_, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	script, err := os.ReadFile(filepath.Join(opts.OutputDir, CombustionScriptPath))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	if strings.Contains(string(script), "attacker-controlled") {
		t.Error("values file must not shadow a secret binding")
	}
}

func TestRun_DryRun(t *testing.T) {
	opts := testOptions(t)
	opts.DryRun = true

	result, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Artifacts) != 2 {
		t.Errorf("expected 2 rendered artifacts, got %d", len(result.Artifacts))
	}
	if len(result.Written) != 0 {
		t.Errorf("dry run must not report written files, got %v", result.Written)
	}
	if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
		t.Error("dry run must not create output")
	}
}

func TestRun_ReplacesPreviousBuild(t *testing.T) {
	opts := testOptions(t)

	if _, err := Run(opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	stale := filepath.Join(opts.OutputDir, "ignition", "stale.ign")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatalf("failed to write stale file: %v", err)
	}

	opts.Env["ROOT_PASSWD"] = "$6$new$hash"
	if _, err := Run(opts); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale artifact to be removed by the rebuild")
	}

	script, err := os.ReadFile(filepath.Join(opts.OutputDir, CombustionScriptPath))
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	if !strings.Contains(string(script), "$6$new$hash") {
		t.Error("expected rebuilt script to carry the new secret")
	}
}

func TestRun_ShippedTemplates(t *testing.T) {
	opts := Options{
		Env:          fullEnv(),
		TemplatesDir: filepath.Join("..", "..", "templates"),
		OutputDir:    filepath.Join(t.TempDir(), "_build"),
	}

	result, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Written) != 2 {
		t.Fatalf("expected exactly 2 written files, got %v", result.Written)
	}
	for _, artifact := range result.Artifacts {
		if strings.Contains(string(artifact.Content), "{{") {
			t.Errorf("%s contains unresolved placeholder markers", artifact.Path)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	opts := testOptions(t)
	opts.DryRun = true

	first, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := range first.Artifacts {
		if string(first.Artifacts[i].Content) != string(second.Artifacts[i].Content) {
			t.Errorf("artifact %s differs between identical runs", first.Artifacts[i].Path)
		}
	}
}
