package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gitmsg/gitmsg/internal/gitx"
)

type action int

const (
	actionCommit action = iota
	actionRegenerate
	actionEdit
	actionCancel
)

// runInteractive loops on the suggestion until the user commits, cancels, or
// a regeneration fails.
func runInteractive(repo *gitx.Repo, msg string, regenerate func() (string, error), out io.Writer) error {
	for {
		choice, err := confirmSuggestion(out, msg)
		if err != nil {
			return err
		}

		switch choice {
		case actionCommit:
			if err := repo.Commit(msg); err != nil {
				return err
			}
			fmt.Fprintln(out, "Commit successful!")
			return nil

		case actionEdit:
			edited, err := editSuggestion(msg)
			if err != nil {
				return err
			}
			msg = edited

		case actionRegenerate:
			fmt.Fprintln(out, "Regenerating...")
			newMsg, err := regenerate()
			if err != nil {
				fmt.Fprintln(out, "No commit message generated.")
				return nil
			}
			msg = newMsg
			renderMessage(out, msg)

		case actionCancel:
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}
}

var suggestionBox = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(1, 2).
	MarginBottom(1)

func confirmSuggestion(out io.Writer, msg string) (action, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, suggestionBox.Render(strings.TrimSpace(msg)))

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Commit (Apply)", "commit"),
					huh.NewOption("Regenerate", "regenerate"),
					huh.NewOption("Edit", "edit"),
					huh.NewOption("Cancel", "cancel"),
				).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return actionCancel, err
	}

	switch selected {
	case "commit":
		return actionCommit, nil
	case "edit":
		return actionEdit, nil
	case "regenerate":
		return actionRegenerate, nil
	default:
		return actionCancel, nil
	}
}

func editSuggestion(initial string) (string, error) {
	content := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Modify the message below").
				Value(&content),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return content, nil
}
