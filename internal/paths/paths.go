package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Extension is required for inputs and output.
	Extension = ".jsonl"

	// DefaultOutput is used when no output path is given.
	DefaultOutput = "Output.jsonl"
)

// ErrInvalidPath matches every *InvalidPathError.
var ErrInvalidPath = errors.New("invalid path")

// InvalidPathError describes a rejected path.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error {
	return ErrInvalidPath
}

// ValidateInput checks that path names an existing regular file with Extension.
func ValidateInput(path string) error {
	if path == "" {
		return &InvalidPathError{Path: path, Reason: "empty"}
	}
	if !strings.HasSuffix(path, Extension) {
		return &InvalidPathError{Path: path, Reason: fmt.Sprintf("must end with %s", Extension)}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &InvalidPathError{Path: path, Reason: "does not exist"}
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &InvalidPathError{Path: path, Reason: "not a regular file"}
	}
	return nil
}

// ValidateOutput checks that path has Extension. The file does not need to exist.
func ValidateOutput(path string) error {
	if path == "" {
		return &InvalidPathError{Path: path, Reason: "empty"}
	}
	if !strings.HasSuffix(path, Extension) {
		return &InvalidPathError{Path: path, Reason: fmt.Sprintf("must end with %s", Extension)}
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return &InvalidPathError{Path: path, Reason: "is a directory"}
	}
	return nil
}

// ValidateDistinct checks that the three paths name three different files.
// Paths are compared in absolute, cleaned form, and existing files are also
// compared by identity so that links to the same file are caught.
func ValidateDistinct(logA, logB, output string) error {
	all := []string{logA, logB, output}
	abs := make([]string, len(all))
	for i, p := range all {
		a, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		abs[i] = a
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if abs[i] == abs[j] || sameFile(abs[i], abs[j]) {
				return &InvalidPathError{
					Path:   all[j],
					Reason: fmt.Sprintf("refers to the same file as %q", all[i]),
				}
			}
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// Validate runs every check on the three paths. Nothing is touched on disk.
func Validate(logA, logB, output string) error {
	if err := ValidateInput(logA); err != nil {
		return fmt.Errorf("log A: %w", err)
	}
	if err := ValidateInput(logB); err != nil {
		return fmt.Errorf("log B: %w", err)
	}
	if err := ValidateOutput(output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return ValidateDistinct(logA, logB, output)
}

// RemoveStale deletes an existing output file. It reports whether a file was
// removed. Call it only after Validate succeeded.
func RemoveStale(output string) (bool, error) {
	err := os.Remove(output)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to remove existing output %s: %w", output, err)
}
