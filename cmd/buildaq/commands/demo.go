package commands

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"buildaq/internal/crypto"
)

// DemoCode unlocks demo notes.
const demoCode = "buildaq-demo"

var heroMessages = []string{
	"All messages are locked until you and your partner share the same code.",
	"Codes never leave your machine. Change them anytime.",
	"Use the demo command to see how a locked message looks.",
}

// demo: seal a sample note so a locked conversation has something to show.
func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seal a sample note under the demo code",
		RunE: func(cmd *cobra.Command, args []string) error {
			code := passphrase
			if code == "" {
				code = demoCode
			}
			text := heroMessages[rand.Intn(len(heroMessages))]
			env, err := crypto.Seal(text, code, "buildaq")
			if err != nil {
				return err
			}
			appCtx.Messages.Append(env)
			fmt.Fprintf(cmd.OutOrStdout(), "demo note sealed; unlock it with code %q\n", code)
			return nil
		},
	}
}
