package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"inventory_viewer/internal/app"
	"inventory_viewer/internal/inventory"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Debug().Err(err).Msg("Command failed")
		fmt.Fprintln(os.Stderr, message(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return flag.ErrHelp
	}

	cmd, ok := findCommand(args[0])
	if !ok {
		usage()
		return fmt.Errorf("%w: unknown command %q", errInvalidInput, args[0])
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	log.Debug().Str("command", cmd.name).Msg("Starting command")
	return cmd.run(ctx, &env{cfg: cfg, stdout: os.Stdout, stdin: os.Stdin}, args[1:])
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: inventory <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
	}
}

// message is the one line shown for a failed command. Input mistakes are reported as they are.
func message(err error) string {
	if errors.Is(err, errInvalidInput) {
		return err.Error()
	}
	return inventory.UserMessage(err)
}
