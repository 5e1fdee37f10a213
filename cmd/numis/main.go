// Command numis is the coin catalog console: one-shot commands plus an interactive shell.
// Configuration comes from the environment or a .env file (NUMIS_API_URL, NUMIS_STATE_DIR, ...).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"numis/console/internal/app"
	"numis/console/internal/config"
	"numis/console/internal/console"
)

// errReported marks failures the console already showed to the user.
var errReported = errors.New("reported")

type cli struct {
	app *app.App
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "numis: shutdown:", cerr)
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "numis:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	root := &cobra.Command{
		Use:           "numis",
		Short:         "Browse and manage the coin catalog",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}
	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.registerCmd(),
		c.healthCmd(),
		c.openCmd(),
		c.shellCmd(),
	)
	return root, c
}

func (c *cli) console() *console.Console {
	return c.app.Console(os.Stdout, console.NewTermPrompter(os.Stdin, os.Stdout))
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.app.Close(ctx)
	c.app = nil
	return err
}

// reported converts an error the console has printed into errReported.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", errReported, err)
}
