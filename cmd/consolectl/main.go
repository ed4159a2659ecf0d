// Command consolectl manages the console's database and users, and signs in
// against a running console from the terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"modelfang-console/internal/config"

	"github.com/spf13/cobra"
)

var exitFunc = os.Exit

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "consolectl",
		Short: "Administer the modelfang console",
		Long: `consolectl runs database migrations, manages console users and
performs a credential sign-in against a running console.

Settings are read from the environment; an optional .env file is loaded first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.LoadEnvFiles(envFile, ".env")
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Additional .env file to load")

	rootCmd.AddCommand(
		migrateCmd(),
		userCmd(),
		loginCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		exitFunc(1)
	}
}

// databaseURL returns the flag value, falling back to DATABASE_URL.
func databaseURL(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("DATABASE_URL 未設定，請用 --database-url 指定")
}

// readPassword reads one line from r. Trailing CR/LF is removed.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("password is empty")
	}
	return pw, nil
}
