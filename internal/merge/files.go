package merge

import (
	"errors"
	"fmt"
	"os"
)

// Files merges the logs at pathA and pathB into outputPath. The output file is
// created or truncated. Paths are expected to be validated by the caller. All
// three files are closed on every return path.
func Files(pathA, pathB, outputPath string, opts ...Option) (stats Stats, err error) {
	fileA, err := os.Open(pathA)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open log A: %w", err)
	}
	defer func() {
		err = errors.Join(err, closeFile(fileA))
	}()

	fileB, err := os.Open(pathB)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open log B: %w", err)
	}
	defer func() {
		err = errors.Join(err, closeFile(fileB))
	}()

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, closeFile(out))
	}()

	return New(fileA, fileB, out, opts...).Run()
}

func closeFile(f *os.File) error {
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.Name(), err)
	}
	return nil
}
