package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmegroup/adlib/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long:  "Reads a password from the first line of stdin and prints its bcrypt hash, using BCRYPT_COST and PASSWORD_PEPPER from the environment.",
	Args:  cobra.NoArgs,
	RunE:  runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password from stdin: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return fmt.Errorf("password is empty")
	}

	hash, err := passwords.HashPassword(pw)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
