package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keelworks/pairpool/internal/server"
)

// newAuthCmd groups API auth helpers.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "API authentication helpers",
	}
	cmd.AddCommand(newHashPasswordCmd())
	return cmd
}

// newHashPasswordCmd produces the bcrypt hash the auth.password-hash config
// key expects.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash an operator password for the config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				cmd.Print("Password: ")
				bz, err := term.ReadPassword(int(os.Stdin.Fd()))
				cmd.Println()
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(bz)
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := server.HashPassword(password)
			if err != nil {
				return err
			}
			cmd.Println(hash)
			return nil
		},
	}
}
