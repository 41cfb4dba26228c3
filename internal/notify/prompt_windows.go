//go:build windows

package notify

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// inputBoxScript shows the VB InputBox. Arguments travel in the environment
// so nothing has to be quoted for PowerShell.
const inputBoxScript = `[Console]::OutputEncoding = [Text.Encoding]::UTF8
Add-Type -AssemblyName Microsoft.VisualBasic
[Microsoft.VisualBasic.Interaction]::InputBox($env:WW_PROMPT_LABEL, $env:WW_PROMPT_TITLE, $env:WW_PROMPT_INITIAL)`

// prompt shows a native input box. InputBox returns an empty string on
// cancel.
func prompt(title, label, initial string) (string, bool, error) {
	cmd := exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", inputBoxScript)
	cmd.Env = append(os.Environ(),
		"WW_PROMPT_TITLE="+title,
		"WW_PROMPT_LABEL="+label,
		"WW_PROMPT_INITIAL="+initial,
	)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
	out, err := cmd.Output()
	if err != nil {
		return "", false, fmt.Errorf("input box: %w", err)
	}
	text := strings.TrimRight(string(out), "\r\n")
	return text, text != "", nil
}
