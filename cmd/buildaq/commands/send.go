package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"buildaq/internal/crypto"
)

// send <message>: seal a note into the local conversation.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Seal a note into the local conversation",
		Long: "send encrypts the note under the shared code and appends it to the " +
			"local log. Delivery to peers happens while chat is connected; notes " +
			"sealed offline are not replayed to the relay later.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := promptPassphrase()
			if err != nil {
				return err
			}
			env, err := crypto.Seal(args[0], code, sender)
			if err != nil {
				return err
			}
			appCtx.Lock.Unlock(code) // sending with a typed code unlocks, as an explicit submit would
			appCtx.Messages.Append(env)
			fmt.Fprintln(cmd.OutOrStdout(), "sealed", env.ID)
			return nil
		},
	}
}
