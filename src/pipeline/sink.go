package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives the processed content of each document.
type Sink interface {
	Write(f FileInfo, content []byte, changed bool) error
}

// InPlace rewrites changed documents where they are.
type InPlace struct{}

// Write implements Sink.
func (InPlace) Write(f FileInfo, content []byte, changed bool) error {
	if !changed {
		return nil
	}
	info, err := os.Stat(f.AbsPath)
	if err != nil {
		return err
	}
	return os.WriteFile(f.AbsPath, content, info.Mode().Perm())
}

// Dir writes every processed document under Root, mirroring relative paths,
// so the output tree is complete even for documents without tags.
type Dir struct {
	Root string
}

// Write implements Sink.
func (d Dir) Write(f FileInfo, content []byte, _ bool) error {
	if filepath.IsAbs(filepath.FromSlash(f.Path)) {
		return fmt.Errorf("cannot mirror %s outside the source root", f.Path)
	}
	dest := filepath.Join(d.Root, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	return os.WriteFile(dest, content, 0o644)
}

// DryRun writes nothing.
type DryRun struct{}

// Write implements Sink.
func (DryRun) Write(FileInfo, []byte, bool) error { return nil }
