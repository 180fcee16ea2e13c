package tray

import (
	"log"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu for the xidi diagnostics
// process.
type Tray struct {
	shutdownFunc ShutdownFunc
	diagURL      string
	profileName  string
	once         sync.Once
	shuttingDown atomic.Bool
	menuProfile  *systray.MenuItem
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. diagURL is opened by "Open Diagnostics";
// profileName is shown, disabled, as the active mapping profile.
func New(diagURL, profileName string, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		shutdownFunc: shutdownFn,
		diagURL:      diagURL,
		profileName:  profileName,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// onReady is called when the tray is ready
func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("xidi")
	systray.SetTooltip("xidi - " + t.diagURL)

	t.menuProfile = systray.AddMenuItem("Profile: "+t.profileName, "Active mapping profile")
	t.menuProfile.Disable()
	systray.AddSeparator()
	t.menuOpen = systray.AddMenuItem("Open Diagnostics", "Open the diagnostics page")
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in a separate goroutine to prevent blocking
	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				// shutdownFunc has returned; now quit the tray.
				systray.Quit()
				return
			}
		}
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Println("System tray exiting")
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser() {
	// Prevent multiple browser launches during shutdown
	if t.shuttingDown.Load() {
		return
	}

	url := t.diagURL
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
