package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"buildaq/internal/crypto"
	"buildaq/internal/domain"
	"buildaq/internal/session"
)

const previewMax = 180

var (
	okBadge     = color.New(color.FgGreen).SprintFunc()
	dangerBadge = color.New(color.FgRed).SprintFunc()
	dimText     = color.New(color.Faint).SprintFunc()
)

// renderConversation prints every envelope, attempting to open each with the
// lock's current code. A failed open renders as a locked bubble with a short
// ciphertext preview; it never aborts the rest of the conversation.
func renderConversation(w io.Writer, entries []domain.Envelope, lock *session.Lock) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimText("No messages yet. Set a shared code, then send a note."))
		return
	}
	for _, entry := range entries {
		renderEntry(w, entry, lock)
	}
}

func renderEntry(w io.Writer, entry domain.Envelope, lock *session.Lock) {
	meta := fmt.Sprintf("%s %s", entry.Sender, fmtTime(entry.At))

	code, ok := lock.Passphrase()
	if !ok {
		fmt.Fprintf(w, "%s  %s Enter the shared code to view.\n", meta, okBadge("[encrypted]"))
		fmt.Fprintf(w, "    %s\n", dimText(cipherPreview(entry.Ciphertext)))
		return
	}

	text, err := crypto.Open(entry, code)
	if err != nil {
		fmt.Fprintf(w, "%s  %s Incorrect code for this message.\n", meta, dangerBadge("[encrypted]"))
		fmt.Fprintf(w, "    %s\n", dimText(cipherPreview(entry.Ciphertext)))
		return
	}
	fmt.Fprintf(w, "%s  %s\n", meta, text)
}

// cipherPreview truncates long ciphertext for display.
func cipherPreview(cipher string) string {
	if len(cipher) > previewMax {
		return cipher[:previewMax] + "..."
	}
	return cipher
}

// fmtTime renders the sealing timestamp in local wall-clock time; an
// unparseable timestamp renders as nothing, matching how little we trust it.
func fmtTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return t.Local().Format("15:04")
}
