// Package localfs provides the local filesystem primitives the transfer
// engine is built on: byte-level file copy, directory tree sizing, and
// volume comparison.
package localfs

import (
	"fmt"
	"io"
	"os"

	"github.com/sysbutler/butler/internal/buffers"
)

// CopyFile copies a regular file from src to dst, preserving the source file
// mode. onBytes, if non-nil, is invoked after every written chunk with the
// chunk size, letting callers drive a progress counter without wrapping the
// writer.
//
// dst is created (or truncated if it already exists - the collision policy
// lives in pathutil, not here). A partially written dst is left in place on
// failure; cleanup is the caller's decision.
func CopyFile(src, dst string, onBytes func(n int64)) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination %s: %w", dst, err)
	}

	bufp := buffers.Get()
	defer buffers.Put(bufp)

	buf := *bufp
	for {
		nr, readErr := in.Read(buf)
		if nr > 0 {
			nw, writeErr := out.Write(buf[:nr])
			if writeErr != nil {
				_ = out.Close()
				return fmt.Errorf("failed to write %s: %w", dst, writeErr)
			}
			if nw != nr {
				_ = out.Close()
				return fmt.Errorf("failed to write %s: %w", dst, io.ErrShortWrite)
			}
			if onBytes != nil {
				onBytes(int64(nw))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			return fmt.Errorf("failed to read %s: %w", src, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination %s: %w", dst, err)
	}
	return nil
}

// FileSize returns the size of a regular file, or 0 if it cannot be stat'd.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
