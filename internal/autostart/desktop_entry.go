package autostart

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DesktopEntry manages an XDG autostart .desktop file.
type DesktopEntry struct {
	// Dir is the autostart directory, normally $XDG_CONFIG_HOME/autostart.
	Dir string
	// Exec is the command line to run.
	Exec []string
}

func (d *DesktopEntry) path() string {
	return filepath.Join(d.Dir, strings.ToLower(AppName)+".desktop")
}

// Label implements Manager.
func (d *DesktopEntry) Label() string { return "Start at Login" }

// Enabled implements Manager. An entry with Hidden=true counts as
// disabled.
func (d *DesktopEntry) Enabled() (bool, error) {
	data, err := os.ReadFile(d.path())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "Hidden=true") || strings.EqualFold(line, "X-GNOME-Autostart-enabled=false") {
			return false, nil
		}
	}
	return true, scanner.Err()
}

// Enable implements Manager.
func (d *DesktopEntry) Enable() error {
	if len(d.Exec) == 0 {
		return fmt.Errorf("no command to autostart")
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create autostart dir: %w", err)
	}

	quoted := make([]string, len(d.Exec))
	for i, arg := range d.Exec {
		quoted[i] = quoteExecArg(arg)
	}

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", AppName)
	b.WriteString("Comment=Web page as desktop wallpaper\n")
	fmt.Fprintf(&b, "Exec=%s\n", strings.Join(quoted, " "))
	b.WriteString("Terminal=false\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")

	return os.WriteFile(d.path(), []byte(b.String()), 0644)
}

// Disable implements Manager.
func (d *DesktopEntry) Disable() error {
	err := os.Remove(d.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// quoteExecArg quotes arg per the desktop entry Exec rules.
func quoteExecArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(arg) + `"`
}
