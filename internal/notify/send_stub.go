//go:build !linux && !darwin && !windows

package notify

// platformSend is a no-op on unsupported platforms.
func platformSend(title, body string, opts Options) error {
	return nil
}
