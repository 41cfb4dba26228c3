package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

type promptTool struct {
	name         string
	buildCommand func(tool, title, label, initial string) *exec.Cmd
}

var promptTools = []promptTool{
	{
		name: "zenity",
		buildCommand: func(tool, title, label, initial string) *exec.Cmd {
			return exec.Command(tool, "--entry", "--title", title, "--text", label, "--entry-text", initial)
		},
	},
	{
		name: "kdialog",
		buildCommand: func(tool, title, label, initial string) *exec.Cmd {
			return exec.Command(tool, "--title", title, "--inputbox", label, initial)
		},
	},
}

// prompt runs the first input dialog tool found on PATH. Both tools exit
// with status 1 on cancel.
func prompt(title, label, initial string) (string, bool, error) {
	for _, tool := range promptTools {
		if _, err := exec.LookPath(tool.name); err != nil {
			continue
		}
		out, err := tool.buildCommand(tool.name, title, label, initial).Output()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("%s: %w", tool.name, err)
		}
		return strings.TrimRight(string(out), "\r\n"), true, nil
	}
	return "", false, ErrNoPrompt
}
