package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbkit/dbkit/secrets"
)

func newSealCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "seal [secret]",
		Short: "Seal a secret with a passphrase",
		Long: `Seal encrypts a secret string under a passphrase-derived key. The
printed armor string is safe to paste into the config file, for example
as a saved connection's password.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, fromStdin, err := readSecret(args)
			if err != nil {
				return err
			}

			pass := passphrase
			if pass == "" {
				if fromStdin {
					return fmt.Errorf("need --passphrase when the secret comes from stdin")
				}
				pass, err = confirmPassphrase()
				if err != nil {
					return err
				}
			}

			sealed, err := secrets.SealString(pass, secret)
			if err != nil {
				return err
			}
			fmt.Println(sealed)
			return nil
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (prompted when omitted)")
	return cmd
}

func newOpenCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "open [sealed]",
		Short: "Unseal a sealed secret",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sealed, fromStdin, err := readSecret(args)
			if err != nil {
				return err
			}
			if !secrets.IsSealed(sealed) {
				return fmt.Errorf("input is not a sealed secret")
			}

			pass := passphrase
			if pass == "" {
				if fromStdin {
					return fmt.Errorf("need --passphrase when the input comes from stdin")
				}
				pass, err = readPassphrase("Passphrase")
				if err != nil {
					return err
				}
			}

			plain, err := secrets.OpenString(pass, sealed)
			if err != nil {
				return err
			}
			fmt.Println(plain)
			return nil
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase (prompted when omitted)")
	return cmd
}

// readSecret takes the value from the argument, or from stdin when the
// argument is "-" or absent.
func readSecret(args []string) (secret string, fromStdin bool, err error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], false, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", true, fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", true, fmt.Errorf("empty input")
	}
	return s, true, nil
}
