// ABOUTME: Error taxonomy shared by the resolver, fetcher, ledger and lifecycle engine
// ABOUTME: Sentinels are matched with errors.Is; PackageError adds the op and package name

package pkgerr

import (
	"errors"
	"fmt"
)

// Domain errors. Expected during normal use and reported with an actionable message.
var (
	ErrPackageNotFound     = errors.New("package does not exist")
	ErrPackageNotInstalled = errors.New("package is not installed")
	ErrIncompatibleVersion = errors.New("unsupported version")
	ErrIncompatibleLoader  = errors.New("unsupported modloader")
	ErrDependencyCycle     = errors.New("dependency cycle")
)

// Infrastructure errors.
var (
	ErrTransport       = errors.New("transport failure")
	ErrFilesystem      = errors.New("filesystem failure")
	ErrManifestCorrupt = errors.New("manifest is corrupt")
)

// Project state errors.
var (
	ErrProjectExists         = errors.New("a project already exists in this directory")
	ErrProjectNotInitialized = errors.New("project is not initialized")
)

// PackageError records a failed operation on a single package.
type PackageError struct {
	Op      string // install, remove, resolve, fetch, place
	Package string
	Err     error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Package, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// Wrap returns a PackageError for op on pkg, or nil when err is nil.
// An error that already carries the same package is returned unchanged.
func Wrap(op, pkg string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PackageError
	if errors.As(err, &pe) && pe.Package == pkg {
		return err
	}
	return &PackageError{Op: op, Package: pkg, Err: err}
}

// IsMissing reports whether err is one of the errors that --skipmissing silences.
func IsMissing(err error) bool {
	return errors.Is(err, ErrPackageNotFound) || errors.Is(err, ErrPackageNotInstalled)
}
