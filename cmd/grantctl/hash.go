package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "Print a bcrypt hash for a USERS_FILE entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash secret: %w", err)
		}
		fmt.Println(string(hash))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashSecretCmd)
}
