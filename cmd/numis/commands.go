package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"numis/console/internal/console"
	"numis/console/internal/policy/engine"
	userdomain "numis/console/internal/user/domain"
)

func (c *cli) loginCmd() *cobra.Command {
	var next string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in, with a second factor when the account has one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := engine.LoginPath
			if next != "" {
				target += "?next=" + next
			}
			return reported(c.console().Open(cmd.Context(), target))
		},
	}
	cmd.Flags().StringVar(&next, "next", "", "protected page to open after signing in")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reported(c.console().Logout(cmd.Context()))
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reported(c.console().Whoami(cmd.Context()))
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := console.NewTermPrompter(os.Stdin, os.Stdout)
			var reg userdomain.Registration
			var err error
			if reg.Email, err = in.Line("Email"); err != nil {
				return err
			}
			if reg.DisplayName, err = in.Line("Display name (optional)"); err != nil {
				return err
			}
			if reg.Password, err = in.Secret("Password"); err != nil {
				return err
			}
			confirm, err := in.Secret("Repeat password")
			if err != nil {
				return err
			}
			if confirm != reg.Password {
				return fmt.Errorf("passwords do not match")
			}
			u, err := c.app.Users.Register(cmd.Context(), reg)
			if err != nil {
				fmt.Fprintln(os.Stdout, "! "+console.DescribeError(err))
				return reported(err)
			}
			fmt.Fprintf(os.Stdout, "» Account %s created. Sign in with: numis login\n", u.Email)
			return nil
		},
	}
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend answers and the route policy loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := c.app.Check(cmd.Context())
			if h.ServerErr != nil {
				fmt.Fprintf(os.Stdout, "server  %s  %s\n", c.app.Config.AssetURL, console.DescribeError(h.ServerErr))
			} else {
				fmt.Fprintf(os.Stdout, "server  %s  %s (%s)\n", c.app.Config.AssetURL, h.Server.Status, h.Server.AppName)
			}
			if h.PolicyErr != nil {
				fmt.Fprintf(os.Stdout, "policy  %v\n", h.PolicyErr)
			} else {
				fmt.Fprintln(os.Stdout, "policy  ok")
			}
			if !h.OK() {
				return errReported
			}
			return nil
		},
	}
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "open <path>",
		Short:   "Render one page, e.g. / or /admin/coins?page=2",
		Example: "  numis open /coins/12\n  numis open '/admin/audit-logs?action=update'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(c.console().Open(cmd.Context(), args[0]))
		},
	}
}

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [path]",
		Short: "Start the interactive console",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "/"
			if len(args) == 1 {
				start = args[0]
			}
			con := c.console()
			con.Help()
			return con.Run(cmd.Context(), start)
		},
	}
}
