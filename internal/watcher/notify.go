package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notify delivers alert as a desktop notification, or as a line on stderr
// when no notifier is available.
func Notify(alert Alert) error {
	if name, args, ok := desktopCommand(runtime.GOOS, alert); ok {
		if _, err := exec.LookPath(name); err == nil {
			if err := exec.Command(name, args...).Run(); err == nil {
				return nil
			}
		}
	}
	return writeAlert(os.Stderr, alert)
}

// desktopCommand returns the notifier invocation for goos: osascript on
// macOS, notify-send on Linux.
func desktopCommand(goos string, alert Alert) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "delaywatch" subtitle %q`,
			alert.Message, alert.Title)
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{"delaywatch: " + alert.Title, alert.Message}, true
	}
	return "", nil, false
}

func writeAlert(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
