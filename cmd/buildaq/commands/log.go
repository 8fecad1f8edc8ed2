package commands

import (
	"github.com/spf13/cobra"
)

// log: render the conversation with the shared code.
func logCmd() *cobra.Command {
	var locked bool
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Render the conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !locked {
				code, err := promptPassphrase()
				if err != nil {
					return err
				}
				appCtx.Lock.Unlock(code)
			}
			renderConversation(cmd.OutOrStdout(), appCtx.Messages.All(), appCtx.Lock)
			return nil
		},
	}
	cmd.Flags().BoolVar(&locked, "locked", false, "render without a code, showing ciphertext previews")
	return cmd
}
