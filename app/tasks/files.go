package tasks

import (
	"fmt"
	"os"
	"path/filepath"
)

type outputFile struct {
	path string
	data []byte
}

// writeFilesAtomic stages every file next to its destination, then renames
// them in order. Each file is replaced atomically; the set is not. Callers
// put the file that publishes the run last, so a failed rename leaves it
// untouched.
func writeFilesAtomic(files []outputFile) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range staged {
			if tmp != "" {
				os.Remove(tmp)
			}
		}
	}()

	for _, file := range files {
		tmp, err := stageFile(file.path, file.data)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, file := range files {
		if err := os.Rename(staged[i], file.path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", file.path, err)
		}
		staged[i] = ""
	}

	return nil
}

func stageFile(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to chmod %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return f.Name(), nil
}
