package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// export: print the conversation as a portable base64 payload. Everything in
// it is still ciphertext; the shared code never leaves the process.
func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the conversation as a portable backup payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := appCtx.Messages.Export()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
}

// import [payload]: replace the conversation from a backup payload, read from
// the argument or stdin.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [payload]",
		Short: "Replace the conversation from a backup payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload string
			if len(args) == 1 {
				payload = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				payload = strings.TrimSpace(string(raw))
			}
			if payload == "" {
				return fmt.Errorf("nothing to import")
			}
			// Import is destructive if the payload is wrong, so this is the
			// one place a hard error is surfaced instead of a status label.
			if err := appCtx.Messages.Import(payload); err != nil {
				return fmt.Errorf("import failed, is the payload intact? %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d messages\n", appCtx.Messages.Len())
			return nil
		},
	}
}

// clear: erase the local conversation after confirmation.
func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase the local conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Clear local encrypted messages? [y/N] ")
				var answer string
				fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(answer, "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			appCtx.Messages.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "conversation cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
