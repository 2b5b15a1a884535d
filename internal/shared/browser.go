package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var osName = func() string { return runtime.GOOS }

// OpenBrowser opens url in the default system browser. Used by the TUI to
// jump from a subject to its council page.
func OpenBrowser(url string) error {
	var launcher *exec.Cmd

	switch os := osName(); os {
	case "darwin":
		launcher = exec.Command("open", url)
	case "linux":
		launcher = exec.Command("xdg-open", url)
	case "windows":
		launcher = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", os)
	}

	if err := launcher.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
