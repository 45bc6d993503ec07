package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentnet/recorder/internal/store"
)

func handleSessions() error {
	db, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.Sessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no recorded sessions")
		return nil
	}

	for _, snap := range sessions {
		id, _ := snap["session_id"].(string)
		state, _ := snap["state"].(string)
		count := snap["event_count"]
		fmt.Printf("%s  state=%s  events=%v\n", id, state, count)
	}
	return nil
}

func handleShow(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: recorder show <session-id>")
	}
	sessionID := args[0]

	db, err := store.Open(storePath())
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := db.Session(sessionID)
	if err != nil {
		return err
	}
	actions, err := db.Actions(sessionID)
	if err != nil {
		return err
	}

	out := map[string]any{
		"session": snap,
		"actions": actions,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
