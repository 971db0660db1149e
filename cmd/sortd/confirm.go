package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/sortdhq/sortd/internal/apierr"
)

// canPrompt reports whether an interactive prompt is possible: a real
// terminal on stdin, and no flag that forbids prompting. JSON mode
// never prompts; its stdout is a machine contract.
func canPrompt() bool {
	if nonInteractive || jsonOutput {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// requireConfirmation gates mutations applied directly (--apply) rather
// than queued. --yes satisfies it; otherwise an interactive confirm
// runs when possible, and the command fails with exit code 2 when not.
func requireConfirmation(action string) error {
	if yesFlag {
		return nil
	}
	if !canPrompt() {
		return apierr.ConfirmationRequired()
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Apply %s now?", action)).
			Description("This sends the change to the backend immediately.").
			Affirmative("Apply").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return apierr.Usagef("confirmation aborted: %v", err)
	}
	if !confirmed {
		return apierr.ConfirmationRequired()
	}
	return nil
}
