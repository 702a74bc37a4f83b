package harness

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
)

// stageInfiles copies each named input file from dataDir into workDir.
// It returns the paths that were created, including on error, so the caller
// can always restore the directory.
func stageInfiles(dataDir, workDir string, infiles mapset.Set[string]) ([]string, error) {
	if infiles == nil {
		return nil, nil
	}
	staged := make([]string, 0, infiles.Cardinality())
	names := infiles.ToSlice()
	for _, name := range names {
		dst := filepath.Join(workDir, filepath.Base(name))
		if err := copyFile(filepath.Join(dataDir, name), dst); err != nil {
			return staged, err
		}
		staged = append(staged, dst)
	}
	return staged, nil
}

// RemoveStaged deletes files staged for a run, restoring the submission
// directory to its pre-run state.
func RemoveStaged(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}

func workDirOf(submissionPath string) string {
	return filepath.Dir(submissionPath)
}
