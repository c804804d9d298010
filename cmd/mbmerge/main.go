package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sydlexius/mbmerge/internal/selector"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, selector.ErrInterrupted) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
