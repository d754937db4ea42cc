//go:build windows

package notify

import (
	"encoding/xml"
	"os/exec"
	"strings"
)

// showToastOS uses PowerShell toast notifications on Windows.
func showToastOS(title, body string) bool {
	// XML-escape title and body to prevent injection
	toastXML := `<toast><visual><binding template="ToastText02">` +
		`<text id="1">` + xmlEscape(title) + `</text>` +
		`<text id="2">` + xmlEscape(body) + `</text>` +
		`</binding></visual></toast>`

	// Pass the XML as a parameter to avoid PowerShell string interpolation.
	script := `param([string]$xml)
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
$doc.LoadXml($xml)
$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("UEFI Reboot").Show($toast)`

	cmd := exec.Command("powershell", "-NoProfile", "-Command", script, "-xml", toastXML)
	if err := cmd.Run(); err != nil {
		log.Warn("toast notification failed", "error", err)
		return false
	}
	return true
}

// xmlEscape encodes a string so it is safe inside XML text content.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
