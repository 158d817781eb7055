package handlers

import (
	"context"
	"errors"
	"sort"

	"github.com/charmbracelet/huh"

	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/ui"
)

const (
	actionHealth  = "health"
	actionReport  = "report"
	actionUpdate  = "update"
	actionBackup  = "backup"
	actionCleanup = "cleanup"
	actionAudit   = "audit"
	actionRestart = "restart"
	actionLogs    = "logs"
	actionQuit    = "quit"
)

// selectAction presents the action menu. A variable so tests can script
// the operator's choices.
var selectAction = func(stackName string) (string, error) {
	action := ""
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Stack: "+stackName).
				Options(
					huh.NewOption("Check endpoint health", actionHealth),
					huh.NewOption("Full health report", actionReport),
					huh.NewOption("Update packages and images", actionUpdate),
					huh.NewOption("Back up volumes", actionBackup),
					huh.NewOption("Clean up unused resources", actionCleanup),
					huh.NewOption("Security audit", actionAudit),
					huh.NewOption("Restart a service", actionRestart),
					huh.NewOption("Stream logs", actionLogs),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&action),
		),
	).Run()
	return action, err
}

// selectFrom asks the operator to pick one of the given names.
var selectFrom = func(title string, names []string) (string, error) {
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(name, name))
	}
	choice := ""
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title(title).Options(options...).Value(&choice),
		),
	).Run()
	return choice, err
}

// Interactive loops over the maintenance action set until the operator
// quits. Each action runs exactly as its non-interactive command would;
// a failed action is reported and the loop continues.
func Interactive(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	for {
		action, err := selectAction(cfg.StackName)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		if err := runAction(ctx, cfg, configPath, action); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			ui.Fail(action, err.Error())
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

var errQuit = errors.New("quit")

func runAction(ctx context.Context, cfg *config.Config, configPath, action string) error {
	switch action {
	case actionHealth:
		return Health(ctx, configPath, false, false)
	case actionReport:
		return Report(ctx, configPath)
	case actionUpdate:
		return Update(ctx, configPath)
	case actionBackup:
		return Backup(ctx, configPath)
	case actionCleanup:
		return Cleanup(ctx, configPath)
	case actionAudit:
		return Audit(ctx, configPath)
	case actionRestart:
		target, err := selectFrom("Restart which service or group?", restartTargets(cfg))
		if err != nil {
			return err
		}
		return Restart(ctx, configPath, target)
	case actionLogs:
		source, err := selectFrom("Stream which log source?", logSourceNames(cfg))
		if err != nil {
			return err
		}
		return Logs(ctx, configPath, source)
	case actionQuit:
		return errQuit
	}
	return nil
}

// restartTargets lists the configured groups followed by their member
// services, deduplicated.
func restartTargets(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var targets []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			targets = append(targets, name)
		}
	}
	groups := make([]string, 0, len(cfg.Services.Groups))
	for g := range cfg.Services.Groups {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		add(g)
	}
	for _, g := range groups {
		for _, member := range cfg.Services.Groups[g] {
			add(member)
		}
	}
	return targets
}

func logSourceNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.LogSources))
	for name := range cfg.LogSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
