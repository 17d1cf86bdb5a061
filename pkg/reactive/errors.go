package reactive

import (
	"errors"

	verrors "github.com/vango-dev/vbind/internal/errors"
)

// ErrNoSuchProperty is returned when a key or name is not present.
var ErrNoSuchProperty = errors.New("reactive: no such property")

// ErrUndefined is returned when a path walks through a nil value.
var ErrUndefined = errors.New("reactive: cannot read property of undefined")

// ErrNotComposite is returned when a path walks through a scalar.
var ErrNotComposite = errors.New("reactive: value is not composite")

// ErrBadIndex is returned for a sequence segment that is not a valid index.
var ErrBadIndex = errors.New("reactive: invalid sequence index")

func noSuchProperty(path string) error {
	return verrors.New("E001").WithTarget(path).Wrap(ErrNoSuchProperty)
}

func undefinedAt(path string) error {
	return verrors.New("E002").WithTarget(path).Wrap(ErrUndefined)
}

func notComposite(path string) error {
	return verrors.New("E003").WithTarget(path).Wrap(ErrNotComposite)
}

func badIndex(path string) error {
	return verrors.New("E004").WithTarget(path).Wrap(ErrBadIndex)
}
