//go:build windows

package autostart

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// RunKey manages the HKCU Run value.
type RunKey struct {
	command []string
}

// New returns the registry autostart manager.
func New() (Manager, error) {
	cmd, err := Command()
	if err != nil {
		return nil, err
	}
	return &RunKey{command: cmd}, nil
}

// Label implements Manager.
func (r *RunKey) Label() string { return "Start with Windows" }

func (r *RunKey) value() string {
	parts := make([]string, len(r.command))
	for i, p := range r.command {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		parts[i] = p
	}
	return strings.Join(parts, " ")
}

// Enabled implements Manager.
func (r *RunKey) Enabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("failed to open Run key: %w", err)
	}
	defer k.Close()

	_, _, err = k.GetStringValue(AppName)
	if err == registry.ErrNotExist {
		return false, nil
	}
	return err == nil, err
}

// Enable implements Manager.
func (r *RunKey) Enable() error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer k.Close()
	return k.SetStringValue(AppName, r.value())
}

// Disable implements Manager.
func (r *RunKey) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer k.Close()
	if err := k.DeleteValue(AppName); err != nil && err != registry.ErrNotExist {
		return err
	}
	return nil
}
