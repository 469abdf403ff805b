package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-planner-client/internal/app/session"
)

// readPassword falls back to a line on stdin when no --password flag is given.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(cl *cli) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if err := cl.client.Session.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			return printSession(cmd, cl)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	return cmd
}

func registerCmd(cl *cli) *cobra.Command {
	var (
		email    string
		password string
		fullName string
	)
	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			in := session.RegisterInput{Email: email, Username: args[0], Password: pw}
			if cmd.Flags().Changed("full-name") {
				in.FullName = &fullName
			}
			if err := cl.client.Session.Register(cmd.Context(), in); err != nil {
				return err
			}
			return printSession(cmd, cl)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl.client.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl.client.Session.FetchUserInfo(cmd.Context())
			return printSession(cmd, cl)
		},
	}
}

func printSession(cmd *cobra.Command, cl *cli) error {
	out := cmd.OutOrStdout()
	sess := cl.client.Session.Session()
	if cl.jsonOut {
		return cl.emitJSON(out, map[string]any{"logged_in": sess.Authenticated(), "user": sess.User})
	}
	switch {
	case !sess.Authenticated():
		fmt.Fprintln(out, "Not logged in.")
	case sess.User == nil:
		fmt.Fprintln(out, "Logged in (profile unavailable).")
	default:
		printUser(out, *sess.User)
	}
	return nil
}

func routeCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "route [path]",
		Short: "Show where the route guard sends a navigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := cl.client.Navigate(args[0])
			out := cmd.OutOrStdout()
			if cl.jsonOut {
				return cl.emitJSON(out, map[string]any{"path": args[0], "proceed": d.Proceeds(), "redirect_to": d.RedirectTo})
			}
			if r, params, ok := cl.client.Routes.Resolve(args[0]); ok && r.Name != "" {
				fmt.Fprintf(out, "route:    %s %v\n", r.Name, params)
			}
			fmt.Fprintf(out, "decision: %s\n", d)
			return nil
		},
	}
}
