package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sortdhq/sortd/internal/api"
	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/ui"
)

var (
	authEmailFlag    string
	authUsernameFlag string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with the backend",
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and start a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := gatherCredentials()
		if err != nil {
			return err
		}

		user, err := client.Register(cmd.Context(), email, password, authUsernameFlag)
		if err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("%s registered %s on %s\n", ui.Pass(ui.IconPass), user.Email, cfg.Host)
		}
		emitSuccess(map[string]interface{}{"user": user, "host": cfg.Host})
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := gatherCredentials()
		if err != nil {
			return err
		}

		user, err := client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
		if err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("%s logged in as %s on %s\n", ui.Pass(ui.IconPass), user.Email, cfg.Host)
		}
		emitSuccess(map[string]interface{}{"user": user, "host": cfg.Host})
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session locally and remotely",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := client.Logout(cmd.Context())
		if err != nil && !jsonOutput {
			// Local state is already cleared; the remote failure is
			// informational.
			fmt.Fprintf(os.Stderr, "%s remote logout failed: %v\n", ui.Muted(ui.IconWarn), err)
		}

		if !jsonOutput {
			fmt.Printf("%s logged out of %s\n", ui.Pass(ui.IconPass), cfg.Host)
		}
		emitSuccess(map[string]interface{}{"logged_out": true, "host": cfg.Host})
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := client.Session()
		authenticated := len(sess.Cookies) > 0

		data := map[string]interface{}{
			"host":          cfg.Host,
			"authenticated": authenticated,
		}
		var user *types.StoredUser
		if authenticated {
			user = sess.User
			data["user"] = user
		}

		if !jsonOutput {
			if !authenticated {
				fmt.Printf("Not logged in to %s\n", cfg.Host)
			} else if user != nil {
				fmt.Printf("%s logged in as %s on %s\n", ui.Pass(ui.IconPass), ui.Bold(user.Email), cfg.Host)
				if user.DefaultOrgID != "" {
					fmt.Printf("  default org: %s\n", ui.Muted(user.DefaultOrgID))
				}
			} else {
				fmt.Printf("%s session present on %s (user unknown; run any command to refresh)\n", ui.Pass(ui.IconPass), cfg.Host)
			}
		}
		emitSuccess(data)
		return nil
	},
}

// gatherCredentials resolves the email and password for register/login:
// flags and environment first, then an interactive password prompt.
func gatherCredentials() (string, string, error) {
	email := authEmailFlag
	if email == "" {
		email = cfg.Email
	}
	if email == "" {
		return "", "", apierr.Usagef("email required: pass --email or set SORTD_EMAIL")
	}

	password := cfg.Password
	if password == "" {
		var err error
		password, err = promptPassword("Password for " + email)
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		return "", "", apierr.Usagef("password must not be empty")
	}
	return email, password, nil
}

// promptPassword reads a password without echo. Non-TTY invocations
// must supply SORTD_PASSWORD instead.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if nonInteractive || !term.IsTerminal(fd) {
		return "", apierr.Usagef("password required: set SORTD_PASSWORD or run interactively")
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", apierr.Usagef("read password: %v", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	authRegisterCmd.Flags().StringVar(&authEmailFlag, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&authUsernameFlag, "username", "", "Display name (optional)")
	authLoginCmd.Flags().StringVar(&authEmailFlag, "email", "", "Account email")

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
