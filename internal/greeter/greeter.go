// Package greeter formats greetings and hands them to a host-supplied
// display callback.
package greeter

import (
	"fmt"

	"go.uber.org/zap"
)

// Display is the host callback that shows a message, such as the browser's alert.
type Display interface {
	Show(msg string)
}

// DisplayFunc adapts a plain function to Display.
type DisplayFunc func(msg string)

func (f DisplayFunc) Show(msg string) { f(msg) }

type Greeter struct {
	display Display
	log     *zap.Logger
}

// New returns a Greeter that forwards to display. The display must be non-nil;
// what happens when the host callback is missing is up to the host.
func New(display Display, log *zap.Logger) *Greeter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Greeter{
		display: display,
		log:     log,
	}
}

// Greet shows "Hello, <name>!" through the display callback exactly once.
func (g *Greeter) Greet(name string) {
	msg := Greeting(name)
	g.log.Debug("Greeting", zap.String("name", name))
	g.display.Show(msg)
}

// Greeting returns the greeting text for name.
func Greeting(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}
