package cli

import (
	"fmt"

	"github.com/aidanlsb/magpie/internal/refindex"
	"github.com/aidanlsb/magpie/internal/schema"
	"github.com/aidanlsb/magpie/internal/vault"
)

// loadRegistry loads and validates the vault's schema.
func loadRegistry(vaultPath string) (*schema.Registry, error) {
	return schema.Load(vaultPath)
}

// buildIndex scans the vault and returns the reference index plus the
// per-file scan failures.
func buildIndex(vaultPath string) (*refindex.Index, []vault.WalkResult, error) {
	notes, failures, err := vault.CollectNotes(vaultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("scan vault: %w", err)
	}
	return refindex.New(notes), failures, nil
}

// scanWarnings converts per-file scan failures into response warnings.
func scanWarnings(failures []vault.WalkResult) []Warning {
	var out []Warning
	for _, f := range failures {
		out = append(out, Warning{
			Code:    "FILE_SKIPPED",
			Message: f.Err.Error(),
			Ref:     f.RelPath,
		})
	}
	return out
}
