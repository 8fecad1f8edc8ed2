package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"buildaq/internal/app"
	"buildaq/internal/domain"
)

var (
	home       string
	passphrase string
	sender     string

	relayAddr string
	room      string

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "buildaq",
		Short: "Shared-code encrypted notes over a relay",
		Long: "buildaq exchanges short notes that are sealed with a shared code " +
			"before they leave this process and stay sealed at rest and in transit.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".buildaq")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			appCtx = app.NewWire(app.Config{Home: home})

			// Flags win; the persisted relay slot fills the gaps.
			cfg, err := appCtx.Store.LoadRelayConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			if relayAddr == "" {
				relayAddr = cfg.RelayAddr
			}
			if room == "" {
				room = cfg.Room
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.buildaq)")
	root.PersistentFlags().StringVarP(&passphrase, "code", "p", "", "shared code; prompted when omitted")
	root.PersistentFlags().StringVar(&sender, "sender", "You", "display label on notes you seal")
	root.PersistentFlags().StringVar(&relayAddr, "relay", "", "relay address, e.g. 127.0.0.1:7350")
	root.PersistentFlags().StringVar(&room, "room", "", "relay room name")

	root.AddCommand(chatCmd(), sendCmd(), logCmd(), demoCmd(), exportCmd(), importCmd(), clearCmd())
	return root.Execute()
}

// saveRelayTarget remembers the current relay/room for the next run.
func saveRelayTarget() {
	if relayAddr == "" && room == "" {
		return
	}
	cfg := domain.RelayConfig{RelayAddr: relayAddr, Room: room}
	if err := appCtx.Store.SaveRelayConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: unable to save relay config: %v\n", err)
	}
}

// promptPassphrase reads the shared code without echo when the -p flag was
// not given.
func promptPassphrase() (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	fmt.Fprint(os.Stderr, "Shared code: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	code := strings.TrimSpace(string(raw))
	if code == "" {
		return "", fmt.Errorf("shared code required")
	}
	return code, nil
}
