// Command diaconv converts Dia diagrams and shape templates to flat
// OpenDocument drawings.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/diaconv/internal/cli"
	"github.com/matzehuels/diaconv/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if !stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
	}
	os.Exit(exitCode(err))
}

// exitCode maps err to the process status: 130 after Ctrl-C as shells
// expect, 2 for unusable input or configuration, 1 otherwise.
func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeUnsupportedDocument):
		return 2
	}
	return 1
}
