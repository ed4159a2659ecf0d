package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"modelfang-console/internal/authn"
	"modelfang-console/internal/loginform"

	"github.com/spf13/cobra"
)

var newAuthenticator = func(server string) loginform.Authenticator {
	return authn.NewClient(server)
}

// printNavigator reports where a browser would have gone.
type printNavigator struct {
	out io.Writer
}

func (n printNavigator) Push(path string) { fmt.Fprintf(n.out, "signed in, continue at %s\n", path) }
func (n printNavigator) Refresh()         {}

func loginCmd() *cobra.Command {
	var server, username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a running console; the password is read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			var token string
			inner := newAuthenticator(server)
			auth := loginform.AuthenticatorFunc(func(ctx context.Context, c loginform.Credentials, o loginform.Options) (loginform.Result, error) {
				res, err := inner.SignIn(ctx, c, o)
				token = res.Token
				return res, err
			})

			form := loginform.New(auth, printNavigator{out: cmd.ErrOrStderr()})
			err = form.Submit(cmd.Context(), loginform.Credentials{Username: username, Password: pw})
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			case errors.Is(err, loginform.ErrIncomplete):
				return fmt.Errorf("--username and a password are required")
			default:
				return errors.New(form.State().ErrorMessage())
			}
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Console base URL")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	return cmd
}
