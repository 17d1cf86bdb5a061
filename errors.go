package vbind

import (
	"errors"
	"fmt"

	verrors "github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// ErrRootNotFound is returned when Options.El names no node.
var ErrRootNotFound = errors.New("vbind: root element not found")

func rootNotFound(target string) error {
	return verrors.New("E012").WithTarget(target).Wrap(ErrRootNotFound)
}

func noSuchName(name string) error {
	return verrors.New("E001").
		WithTarget(name).
		WithSuggestion(fmt.Sprintf("declare %q in Data, Computed or Methods", name)).
		Wrap(reactive.ErrNoSuchProperty)
}
