package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/wasteland/pkg/save"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

func main() {
	args := os.Args[1:]
	rewrite := false
	if len(args) > 0 && args[0] == "--rewrite" {
		rewrite = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--rewrite] <save.json>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range args {
		validator := &SaveValidator{rewrite: rewrite}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// SaveValidator checks save files and optionally rewrites legacy ones in
// the current layout.
type SaveValidator struct {
	rewrite bool
	errors  []string
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		return fmt.Errorf("save file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	snap, err := save.Decode(data)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v.validateSnapshot(snap)
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	if v.rewrite && save.IsLegacy(data) {
		out, err := save.Encode(snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filename, out, 0o600); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", filename, err)
		}
		fmt.Printf("Rewrote %s in the current save format\n", filename)
	}
	return nil
}

func (v *SaveValidator) validateSnapshot(s *survival.Snapshot) {
	for _, problem := range survival.Validate(s) {
		v.addError(problem)
	}
	if strings.TrimSpace(s.PlayerName) == "" {
		v.addError("player name is empty")
	}
	if s.PlayerUID == "" {
		v.addError("player uid is missing")
	}
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
