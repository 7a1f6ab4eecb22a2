//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// platformSend shows title and body through Notification Center.
func platformSend(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}
