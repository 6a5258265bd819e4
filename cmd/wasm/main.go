//go:build js && wasm

// Command wasm exposes greet and read_image to a browser host.
package main

import (
	"os"
	"syscall/js"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/config"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/greeter"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	alert := greeter.DisplayFunc(func(msg string) {
		js.Global().Call("alert", msg)
	})
	g := greeter.New(alert, log)
	// No size cap: any decodable image is reported, however large.
	insp := inspector.New(inspector.NewFileSource(""), os.Stdout, 0, log)

	register(js.Global(), g, insp)
	js.Global().Set("astroBridgeReady", true)

	// Keep the Go program running
	select {}
}
