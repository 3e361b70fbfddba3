package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the WanderMage backend and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		email := loginEmail
		if email == "" {
			return eris.New("login: --email is required")
		}

		password := loginPassword
		if password == "" {
			p, err := promptPassword(cmd.OutOrStdout(), cmd.InOrStdin())
			if err != nil {
				return err
			}
			password = p
		}

		sess, err := apiClient().Login(ctx, email, password)
		if err != nil {
			return eris.Wrap(err, "login")
		}

		if err := cfg.SaveToken(sess.Token); err != nil {
			return err
		}

		zap.L().Debug("session stored", zap.Time("expires_at", sess.ExpiresAt))
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Account.Name, sess.Account.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.DeleteToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := apiClient().Me(cmd.Context())
		if err != nil {
			return checkSession(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s <%s>\n", acct.Name, acct.Email)
		if acct.HomeState != "" {
			fmt.Fprintf(out, "Home state: %s\n", acct.HomeState)
		}
		return nil
	},
}

// promptPassword reads one line from in without echoing anything but the
// prompt. Plain line reads keep this testable and pipe-friendly.
func promptPassword(out io.Writer, in io.Reader) (string, error) {
	fmt.Fprint(out, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", eris.Wrap(err, "login: read password")
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", eris.New("login: empty password")
	}
	return password, nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
