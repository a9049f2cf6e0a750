package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathanlmc/wrapperize/internal/app"
	"github.com/jonathanlmc/wrapperize/internal/wrap"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes failure classes so hook scripts and callers can
// react without parsing messages.
func exitCode(err error) int {
	switch {
	case errors.Is(err, wrap.ErrNotFound):
		return 2
	case errors.Is(err, wrap.ErrAlreadyWrapped), errors.Is(err, wrap.ErrNotWrapped):
		return 3
	case errors.Is(err, wrap.ErrConflict):
		return 4
	case errors.Is(err, wrap.ErrWrite):
		return 5
	}
	return 1
}
