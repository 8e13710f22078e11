package core

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/go-crypt/x/blake2b"
)

// DocumentIDPrefix marks a token as a document identity rather than a path.
const DocumentIDPrefix = "doc_"

// DocumentIDFromPath derives a stable document identity from a file path.
// The path is resolved to its canonical absolute form and hashed with
// BLAKE2b; identical absolute paths always yield identical ids. The hash is
// content-independent: editing a file in place keeps the same identity.
func DocumentIDFromPath(path string) (string, error) {
	abs, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits, collisions acceptable
	h.Write([]byte(abs))
	return DocumentIDPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// ResolvePath resolves a path to its canonical absolute form.
// Symlinks are followed when the target exists; a path that cannot be
// resolved by the filesystem wraps ErrPathResolution.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathResolution)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPathResolution, path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// Target may not exist yet (delete-by-path of a removed file); the
	// cleaned absolute path is still a usable identity.
	return filepath.Clean(abs), nil
}

// ChunkID builds the fragment identifier for a chunk of a document.
// Fragment ids are unique within a collection by construction.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
