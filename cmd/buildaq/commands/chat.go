package commands

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"buildaq/internal/crypto"
	"buildaq/internal/relay"
)

// chat: the live session. Connects the relay sync, renders notes as they
// arrive, and relocks the session when the user leaves.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Connect to a relay room and exchange sealed notes live",
		Long: "chat connects to the relay room and keeps the connection alive with " +
			"backoff-governed reconnects. Lines you type are sealed and sent; " +
			"inbound notes are merged, persisted and rendered as they arrive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if relayAddr == "" || room == "" {
				return fmt.Errorf("relay address and room required (--relay, --room)")
			}
			saveRelayTarget()

			out := cmd.OutOrStdout()
			lock := appCtx.Lock
			rs := appCtx.Sync

			if passphrase != "" {
				lock.Unlock(passphrase)
			}
			renderConversation(out, appCtx.Messages.All(), lock)

			// Incoming merges render incrementally; rendered tracks how far.
			var mu sync.Mutex
			rendered := appCtx.Messages.Len()

			rs.OnStatus(func(st relay.Status, label string) {
				switch st {
				case relay.StatusConnected:
					fmt.Fprintln(out, okBadge("* "+label))
				case relay.StatusReconnecting:
					fmt.Fprintln(out, dangerBadge("* "+label))
				default:
					fmt.Fprintln(out, dimText("* "+label))
				}
			})
			rs.OnUpdate(func() {
				mu.Lock()
				defer mu.Unlock()
				entries := appCtx.Messages.All()
				for _, e := range entries[rendered:] {
					renderEntry(out, e, lock)
				}
				rendered = len(entries)
			})

			rs.Connect(cmd.Context(), relayAddr, room)
			defer func() {
				rs.Disconnect()
				lock.Lock("Locked after leaving chat")
			}()

			fmt.Fprintln(out, dimText("Type a note and press enter. Commands: /code <code>, /lock, /status, /quit"))
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				switch {
				case line == "":
				case line == "/quit":
					return nil
				case line == "/lock":
					lock.Lock("Locked by request")
					fmt.Fprintln(out, dimText(lock.Reason()))
				case line == "/status":
					_, label := rs.Status()
					fmt.Fprintln(out, label)
					fmt.Fprintf(out, "%s dropped payloads: %d\n", dimText("*"), rs.Dropped())
				case line == "/code":
					fmt.Fprintln(out, dimText("Usage: /code <code>"))
				case strings.HasPrefix(line, "/code "):
					code := strings.TrimSpace(strings.TrimPrefix(line, "/code "))
					if code == "" {
						fmt.Fprintln(out, dimText(lock.Reason()))
						continue
					}
					lock.Unlock(code)
					fmt.Fprintln(out, dimText("Unlocked with shared code"))
					mu.Lock()
					renderConversation(out, appCtx.Messages.All(), lock)
					rendered = appCtx.Messages.Len()
					mu.Unlock()
				default:
					code, ok := lock.Passphrase()
					if !ok {
						fmt.Fprintln(out, dimText("Add a shared code before sending: /code <code>"))
						continue
					}
					env, err := crypto.Seal(line, code, sender)
					if err != nil {
						return err
					}
					appCtx.Messages.Append(env)
					rs.Send(env)
					mu.Lock()
					rendered = appCtx.Messages.Len()
					mu.Unlock()
				}
			}
			return sc.Err()
		},
	}
}
