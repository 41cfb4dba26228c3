//go:build !windows && !linux

package notify

func prompt(string, string, string) (string, bool, error) {
	return "", false, ErrNoPrompt
}
