// Package fsutil provides the filesystem primitives the installer sequences:
// moving a binary out of the way and writing executable files.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// Move relocates src to dst, replacing dst if it exists. A same-filesystem
// move is a single atomic rename. Across filesystems it falls back to
// copy+verify, and deletes src only after the copy checks out, so a failure
// never leaves zero complete copies of the file.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := CopyFile(src, dst, info.Mode().Perm()); err != nil {
		os.Remove(dst)
		return err
	}
	copied, err := os.Stat(dst)
	if err != nil || copied.Size() != info.Size() {
		os.Remove(dst)
		return fmt.Errorf("copy of %s to %s did not verify", src, dst)
	}
	return os.Remove(src)
}

// isCrossDevice reports whether err is rename failing with EXDEV.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// CopyFile copies src to dst with the given permission bits, truncating dst
// if it exists.
func CopyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("open dest: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	// O_CREATE perm is masked by umask and ignored when dst existed.
	return os.Chmod(dst, perm)
}

// WriteFile writes data to path with exactly the given permission bits,
// regardless of umask or a pre-existing file's mode.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}
