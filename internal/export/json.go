package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/leap/internal/state"
)

type jsonExport struct {
	ExportedAt string          `json:"exported_at"`
	Slot       string          `json:"slot"`
	Data       *state.Snapshot `json:"data"`
}

// ToJSON writes the whole snapshot, pretty-printed, under an export envelope.
func ToJSON(snap *state.Snapshot, slot, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Slot:       slot,
		Data:       snap,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a file written by ToJSON and decodes its snapshot.
func FromJSON(path string) (*state.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return state.Decode(env.Data)
}
