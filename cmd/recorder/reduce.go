package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentnet/recorder/pkg/action"
)

// handleReduce folds a stored action log: a JSON array of action objects in
// the wire schema, chronologically ordered.
func handleReduce(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: recorder reduce <in.json> [out.json]")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read action log: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse action log: %w", err)
	}

	factory := action.NewFactory()
	in := make([]*action.Action, 0, len(raw))
	for i, m := range raw {
		a, err := factory.FromMap(m)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		in = append(in, a)
	}

	reduced := action.Reduce(in)
	out := make([]map[string]any, 0, len(reduced))
	for _, a := range reduced {
		out = append(out, a.ToMap())
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if len(args) >= 2 {
		if err := os.WriteFile(args[1], encoded, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("reduced %d actions to %d (%s)\n", len(in), len(reduced), args[1])
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}
