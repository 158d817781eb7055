package handlers

import (
	"context"
	"os"

	"github.com/mvarga/stackctl/internal/maintain"
)

// Logs streams the named log source to stdout until the context is
// cancelled (Ctrl-C).
func Logs(ctx context.Context, configPath, source string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if results := checkOpsPrereqs(); results.HasErrors() {
		return results.Error()
	}

	streamer := maintain.NewLogStreamer(newEngine(cfg.Services.ComposeProject), cfg.LogSources, os.Stdout)
	return streamer.Stream(ctx, source)
}
