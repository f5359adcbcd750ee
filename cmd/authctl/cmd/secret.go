package cmd

import (
	"fmt"

	"github.com/lecenter/dashboard/pkg/cryptox"
	"github.com/spf13/cobra"
)

var secretSize int

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random AUTH_SECRET",
	Long: `Prints a random base64url secret for AUTH_SECRET. Changing the secret
invalidates every issued session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := cryptox.GenerateSecret(secretSize)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
		return err
	},
}

func init() {
	secretCmd.Flags().IntVar(&secretSize, "bytes", cryptox.SecretSize, "number of random bytes")
}
