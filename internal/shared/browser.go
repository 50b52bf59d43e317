package shared

import (
	"fmt"
	osexec "os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser to the specified URL.
//
// The connect flow performs a full navigation to the provider's consent page,
// so this is the only way the app ever reaches it.
func OpenBrowser(url string) error {
	var cmd *osexec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = osexec.Command("open", url)
	case "linux":
		cmd = osexec.Command("xdg-open", url)
	case "windows":
		cmd = osexec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
