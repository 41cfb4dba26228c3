//go:build windows

package notify

import "golang.org/x/sys/windows"

const (
	mbOK              = 0x00000000
	mbIconError       = 0x00000010
	mbIconInformation = 0x00000040
	mbSetForeground   = 0x00010000
	mbTopmost         = 0x00040000
)

func show(level Level, message string) error {
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	caption, _ := windows.UTF16PtrFromString(Title)

	flags := uint32(mbOK | mbSetForeground | mbTopmost)
	if level == Error {
		flags |= mbIconError
	} else {
		flags |= mbIconInformation
	}
	_, err = windows.MessageBox(0, text, caption, flags)
	return err
}
