package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/agentnet/recorder/internal/config"
	"github.com/agentnet/recorder/internal/store"
	"github.com/agentnet/recorder/pkg/capture"
	"github.com/agentnet/recorder/pkg/platform"
	"github.com/agentnet/recorder/pkg/recorder"
	"github.com/agentnet/recorder/pkg/session"
)

func handleRecord(cfg config.Config, logger *slog.Logger, args []string) error {
	taskName := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "--task" && i+1 < len(args) {
			taskName = args[i+1]
			i++
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	db, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer db.Close()

	// OS listener bindings are external collaborators; headless builds run
	// with the stub provider and the window poller only.
	provider := platform.NewStub()
	if cfg.Platform.ForcePlatform != "" {
		provider.PlatformName = cfg.Platform.ForcePlatform
	}

	sess := session.New(session.Options{
		Platform: provider,
		Config: session.Config{
			NaturalScrolling:    cfg.Recording.NaturalScrolling,
			GenerateWindowA11y:  cfg.Recording.GenerateWindowA11y,
			GenerateElementA11y: cfg.Recording.GenerateElementA11y,
		},
	})
	sess.RecordingPath = filepath.Join(cfg.Recording.RecordingDir, sess.ID)
	sess.Metadata().TaskName = taskName

	window := capture.NewWindowSource(provider, cfg.Capture.WindowPollDuration())

	rec, err := recorder.New(recorder.Options{
		Session:  sess,
		Store:    db,
		Provider: provider,
		Sources:  []capture.Source{window},
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := rec.Start(); err != nil {
		return err
	}
	logger.Info("recording started", "session", sess.ID, "path", sess.RecordingPath)
	if cfg.Platform.NotificationEnabled {
		provider.Notify("Recorder", "Recording started")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := rec.Stop(); err != nil {
		return err
	}
	logger.Info("recording stopped",
		"session", sess.ID,
		"events", sess.EventCount(),
		"state", string(sess.State()))

	fmt.Printf("session %s recorded\n", sess.ID)
	return nil
}
