// Package desktop implements the OS-facing collaborators: opening URLs,
// launching and closing applications, and measuring process runtimes for
// app-duration reminders.
package desktop

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Opener launches URLs through the desktop's default handler.
type Opener struct{}

func (Opener) OpenURL(url string) error {
	if err := exec.Command("xdg-open", url).Start(); err != nil {
		return fmt.Errorf("xdg-open %s: %w", url, err)
	}
	return nil
}

// launchAliases maps spoken application names to executables.
var launchAliases = map[string]string{
	"browser":    "firefox",
	"firefox":    "firefox",
	"chrome":     "google-chrome",
	"terminal":   "x-terminal-emulator",
	"files":      "nautilus",
	"editor":     "code",
	"code":       "code",
	"calculator": "gnome-calculator",
	"spotify":    "spotify",
}

// AppManager drives applications with plain process commands.
type AppManager struct{}

// ProcessAppCommand handles "launch X" and "close X" style requests. It
// reports false when the text names no known application.
func (AppManager) ProcessAppCommand(text string) (bool, error) {
	q := strings.ToLower(text)

	var launch bool
	switch {
	case containsAny(q, "launch", "start", "run"):
		launch = true
	case containsAny(q, "close", "exit", "terminate", "kill"):
		launch = false
	default:
		return false, nil
	}

	for alias, bin := range launchAliases {
		if !strings.Contains(q, alias) {
			continue
		}
		if launch {
			if err := exec.Command(bin).Start(); err != nil {
				return true, fmt.Errorf("launch %s: %w", bin, err)
			}
			return true, nil
		}
		if err := exec.Command("pkill", "-f", bin).Run(); err != nil {
			return true, fmt.Errorf("close %s: %w", bin, err)
		}
		return true, nil
	}
	return false, nil
}

// CloseActiveWindow asks the window manager to close the focused window.
func (AppManager) CloseActiveWindow() error {
	if err := exec.Command("xdotool", "getactivewindow", "windowclose").Run(); err != nil {
		return fmt.Errorf("close active window: %w", err)
	}
	return nil
}

// AppRuntime reports how long the longest-running process matching any of the
// names has been alive. Used by app-duration reminder triggers.
func AppRuntime(names []string) time.Duration {
	procs, err := process.Processes()
	if err != nil {
		return 0
	}

	var longest time.Duration
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		name = strings.ToLower(name)
		for _, want := range names {
			if !strings.Contains(name, strings.ToLower(want)) {
				continue
			}
			createMs, err := p.CreateTime()
			if err != nil {
				continue
			}
			alive := time.Since(time.UnixMilli(createMs))
			if alive > longest {
				longest = alive
			}
		}
	}
	return longest
}

func containsAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}
