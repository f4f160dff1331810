package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/stuttgart-things/firstboot/internal/secrets"
)

var secretDescriptions = map[string]string{
	"ROOT_PASSWD":      "Hashed root password (sha512-crypt)",
	"ADMIN_PASSWD":     "Hashed admin password (sha512-crypt)",
	"ADMIN_SSH_KEYS":   "Admin SSH public keys, ';'-separated",
	"ADMIN_OTP_SECRET": "Hex-encoded OTP shared secret for the admin login",
	"DISK_PASSWD":      "Fallback passphrase for the encrypted system disk",
	"ADGUARD_MAC":      "Locally administered MAC for the AdGuard interface",
}

// runBuildInteractive runs the build command in interactive mode: any
// required secret missing or blank in the environment is prompted for
// before the pipeline runs.
func runBuildInteractive(config *BuildConfig) error {
	env, err := collectEnv(config)
	if err != nil {
		return err
	}

	missing := missingSecrets(env)
	if len(missing) > 0 {
		fmt.Println(progressStyle.Render(fmt.Sprintf("%d secret(s) missing from the environment", len(missing))))

		answers := make([]string, len(missing))
		var fields []huh.Field
		for i, spec := range missing {
			fields = append(fields, huh.NewInput().
				Title(spec.Name).
				Description(secretDescriptions[spec.Name]).
				EchoMode(huh.EchoModePassword).
				Validate(validateSecretInput(spec)).
				Value(&answers[i]))
		}

		form := huh.NewForm(huh.NewGroup(fields...))
		if err := form.Run(); err != nil {
			return err
		}

		for i, spec := range missing {
			env[spec.Name] = answers[i]
		}
	}

	confirm := true
	confirmForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Build provisioning artifacts?").
				Description(fmt.Sprintf("Output will be written to %s", config.OutputDir)).
				Affirmative("Yes, build").
				Negative("Cancel").
				Value(&confirm),
		),
	)

	if err := confirmForm.Run(); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Cancelled.")
		return nil
	}

	return executeBuild(config, env)
}

// validateSecretInput mirrors the validator so a prompted value cannot
// fail the pipeline afterwards.
func validateSecretInput(spec secrets.Spec) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", spec.Name)
		}
		if spec.Kind == secrets.DelimitedList && len(secrets.ParseList(s, spec.Delimiter)) == 0 {
			return fmt.Errorf("%s must contain at least one item", spec.Name)
		}
		return nil
	}
}

// missingSecrets returns the required secrets absent or blank in env, in
// declaration order.
func missingSecrets(env map[string]string) []secrets.Spec {
	var missing []secrets.Spec
	for _, spec := range secrets.Specs {
		if !spec.Required {
			continue
		}
		if strings.TrimSpace(env[spec.Name]) == "" {
			missing = append(missing, spec)
		}
	}
	return missing
}
