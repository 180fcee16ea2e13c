// Command xidi-demo wires the translation engine to a real controller via
// internal/sdlsource and exposes its Virtual Controller state over the
// internal/diag diagnostics surface, with a system tray for convenience.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/xidi-go/xidi/internal/config"
	"github.com/xidi-go/xidi/internal/console"
	"github.com/xidi-go/xidi/internal/core"
	"github.com/xidi-go/xidi/internal/diag"
	"github.com/xidi-go/xidi/internal/legacyapi"
	"github.com/xidi-go/xidi/internal/propapi"
	"github.com/xidi-go/xidi/internal/sdlsource"
	"github.com/xidi-go/xidi/internal/tray"
	"github.com/xidi-go/xidi/internal/vcontroller"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	addr := pflag.String("addr", ":8080", "diagnostics HTTP listen address")
	profileFlag := pflag.String("profile", "", "override the configured mapping profile (StandardGamepad, ExtendedGamepad, XInputNative, XInputSharedTriggers)")
	pflag.Parse()

	profile := config.Profile()
	if *profileFlag != "" {
		profile = core.LookupProfile(*profileFlag)
	}
	log.Printf("using mapping profile: %s", profile.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	winShutdown := make(chan struct{})
	reRegisterConsoleHandler := console.SetupConsoleHandler(winShutdown)

	source := sdlsource.New()
	sourceDone := make(chan struct{})

	ctrl := vcontroller.New(profile, source, 0)
	device := legacyapi.NewDevice(ctrl)
	logInitialProperties(device.Properties(), profile)
	bindFullDataFormat(device, profile)

	diagServer := diag.New(ctrl, *addr)
	diagServer.Run()

	serverErrCh := make(chan error, 1)
	go func() {
		if err := diagServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	diagURL := fmt.Sprintf("http://localhost%s", *addr)
	log.Printf("xidi diagnostics started: %s", diagURL)

	shutdownRequested := make(chan struct{})
	if runtime.GOOS == "windows" {
		go func() {
			t := tray.New(diagURL, profile.Name(), func() {
				close(shutdownRequested)
			})
			t.Run(tray.GetIcon())
		}()
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	go func() {
		source.Run(ctx)
		close(sourceDone)
	}()
	// SDL's init can override the console control handler; re-register
	// once it has had a chance to settle.
	go func() {
		time.Sleep(500 * time.Millisecond)
		reRegisterConsoleHandler()
	}()

	select {
	case <-sigCh:
		log.Println("shutting down...")
		cancel()
	case <-winShutdown:
		log.Println("shutting down (console control event)...")
		cancel()
	case <-shutdownRequested:
		log.Println("shutdown requested from tray")
		cancel()
	case err := <-serverErrCh:
		log.Printf("diagnostics server error: %v", err)
		cancel()
	}

	<-sourceDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := diagServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("diagnostics server shutdown error: %v", err)
	}

	log.Println("xidi stopped")
}

// bindFullDataFormat installs a representative full-fidelity data format
// through the legacy-API wrapper: every axis, button and POV the profile
// exposes, laid out densely and word-aligned, matching what a guest
// application's own SetDataFormat call would typically request.
func bindFullDataFormat(d *legacyapi.Device, profile *core.Profile) {
	var reqs []core.ObjectRequest
	off := uint32(0)
	for i := 0; i < int(profile.CountOf(core.KindAxis)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindAxis, InstanceOrAny: i, ByteOffset: off})
		off += 4
	}
	for i := 0; i < int(profile.CountOf(core.KindButton)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindButton, InstanceOrAny: i, ByteOffset: off})
		off++
	}
	for off%4 != 0 {
		off++
	}
	for i := 0; i < int(profile.CountOf(core.KindPOV)); i++ {
		reqs = append(reqs, core.ObjectRequest{KindMask: core.KindPOV, InstanceOrAny: i, ByteOffset: off})
		off += 4
	}

	if err := d.SetDataFormat(reqs, off); err != nil {
		log.Printf("could not bind the default data format: %v", err)
		return
	}
	axes, buttons, povs := d.GetCapabilities()
	log.Printf("bound default data format: %d bytes (%d axes, %d buttons, %d POVs)", off, axes, buttons, povs)
}

func logInitialProperties(f *propapi.Facade, profile *core.Profile) {
	for i := 0; i < int(profile.CountOf(core.KindAxis)); i++ {
		target := propapi.ByVId(core.VId{Kind: core.KindAxis, Index: i})
		r, err := f.GetRange(target)
		if err != nil {
			log.Printf("axis %d: %v", i, err)
			continue
		}
		log.Printf("axis %d (%s): range [%d, %d]", i, core.ObjectName(profile, core.VId{Kind: core.KindAxis, Index: i}), r.Min, r.Max)
	}
}
