package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Variant describes how closely a located submission file matches the
// expected target name.
type Variant int

const (
	// NotFound: no recognizable variant exists in the directory.
	NotFound Variant = iota
	// Exact: the name matches exactly.
	Exact
	// CaseFolded: the name matches ignoring case.
	CaseFolded
	// ExtStripped: the base name matches but the extension differs or is
	// missing.
	ExtStripped
)

// Locate finds the submission file in dir matching target, preferring an
// exact match, then a case-folded one, then an extension variant. Anything
// but an exact match carries the wrong-file-name penalty.
func Locate(dir, target string) (string, Variant, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", NotFound, fmt.Errorf("failed to read submission dir %s: %w", dir, err)
	}

	targetStem := stripExt(target)
	var caseFolded, extStripped string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == target {
			return filepath.Join(dir, name), Exact, nil
		}
		if caseFolded == "" && strings.EqualFold(name, target) {
			caseFolded = name
		}
		if extStripped == "" && strings.EqualFold(stripExt(name), targetStem) {
			extStripped = name
		}
	}

	if caseFolded != "" {
		return filepath.Join(dir, caseFolded), CaseFolded, nil
	}
	if extStripped != "" {
		return filepath.Join(dir, extStripped), ExtStripped, nil
	}
	return "", NotFound, nil
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
