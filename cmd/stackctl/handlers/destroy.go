package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"
)

// confirmDestroy asks the operator to confirm teardown. A variable so
// tests can bypass the terminal form.
var confirmDestroy = func(stackName string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Destroy server %q and all its data?", stackName)).
				Description("This operation is irreversible.").
				Affirmative("Destroy").
				Negative("Cancel").
				Value(&confirmed),
		),
	).Run()
	return confirmed, err
}

// Destroy deletes the provisioned server and its SSH key. The credentials
// artifact on disk is left in place; removing local state is the
// operator's call.
func Destroy(ctx context.Context, configPath string, yes bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	token, err := hcloudToken()
	if err != nil {
		return err
	}

	if !yes {
		confirmed, err := confirmDestroy(cfg.StackName)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Printf("destroy cancelled")
			return nil
		}
	}

	log.Printf("destroying server %s", cfg.StackName)
	if err := newProvisioner(token).Destroy(ctx, provisionSpec(cfg)); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}
	log.Printf("server %s destroyed", cfg.StackName)
	return nil
}
