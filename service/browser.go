package service

import (
	"fmt"
	"os/exec"
	"runtime"
)

// linuxOpeners are tried in order; desktops differ in which one exists.
var linuxOpeners = []string{"xdg-open", "gnome-open", "kde-open"}

// OpenBrowser opens url in the system default browser. The command is
// started, not awaited, so the caller never blocks on the browser.
func OpenBrowser(url string) error {
	name, args, err := openerCommand(url)
	if err != nil {
		return err
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func openerCommand(url string) (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}, nil
	case "linux":
		for _, opener := range linuxOpeners {
			if _, err := exec.LookPath(opener); err == nil {
				return opener, []string{url}, nil
			}
		}
		return "", nil, fmt.Errorf("no suitable browser opener found for Linux")
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
