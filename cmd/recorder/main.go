package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentnet/recorder/internal/config"
	"github.com/agentnet/recorder/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading config: %v\n", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "record":
		err = handleRecord(cfg, logger, os.Args[2:])
	case "sessions":
		err = handleSessions()
	case "show":
		err = handleShow(os.Args[2:])
	case "reduce":
		err = handleReduce(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: recorder <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  record [--task <name>]     record a session until interrupted")
	fmt.Println("  sessions                   list stored sessions")
	fmt.Println("  show <session-id>          print a session's merged actions")
	fmt.Println("  reduce <in.json> [out]     fold a stored action log")
}

func configPath() string {
	return filepath.Join(".recorder", "config.yaml")
}

func storePath() string {
	// Use a project-local .recorder directory if it exists, otherwise temp.
	if _, err := os.Stat(".recorder"); err == nil {
		return filepath.Join(".recorder", "recordings.db")
	}
	return filepath.Join(os.TempDir(), "recorder-recordings.db")
}
