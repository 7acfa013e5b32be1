package builder

import (
	"encoding/json"
	"fmt"
	"os"
)

// WritePinning stores the keygen-time layout next to the proving key so
// later prover runs can be validated against it.
func WritePinning(path string, l *Layout) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("builder: encode pinning: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("builder: write pinning: %w", err)
	}
	return nil
}

// ReadPinning loads a layout written by WritePinning.
func ReadPinning(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("builder: read pinning: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("builder: decode pinning %s: %w", path, err)
	}
	return &l, nil
}
