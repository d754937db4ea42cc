//go:build !windows

package notify

// showToastOS only logs off Windows; there is no toast surface to drive.
func showToastOS(title, body string) bool {
	log.Debug("desktop toast suppressed", "title", title, "body", body)
	return false
}
