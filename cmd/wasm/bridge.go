//go:build js && wasm

package main

import (
	"context"
	"syscall/js"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/greeter"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
)

// register installs greet and read_image on target.
//
// A js.FuncOf handler runs with the JS event loop paused, and file reads on
// js/wasm wait for a JS callback, so read_image does its work on a new
// goroutine and hands back a Promise that resolves once the line is written.
// Failures stay fatal and reject nothing: the program exits.
func register(target js.Value, g *greeter.Greeter, insp *inspector.Inspector) {
	target.Set("greet", js.FuncOf(func(_ js.Value, args []js.Value) any {
		g.Greet(stringArg(args))
		return nil
	}))

	target.Set("read_image", js.FuncOf(func(_ js.Value, args []js.Value) any {
		path := stringArg(args)

		var executor js.Func
		executor = js.FuncOf(func(_ js.Value, resolvers []js.Value) any {
			resolve := resolvers[0]
			go func() {
				insp.ReadImage(context.Background(), path)
				resolve.Invoke()
			}()
			return nil
		})
		defer executor.Release()

		return js.Global().Get("Promise").New(executor)
	}))
}

// stringArg coerces the first argument the way JavaScript's String() does.
func stringArg(args []js.Value) string {
	if len(args) == 0 {
		return "undefined"
	}
	if args[0].Type() == js.TypeString {
		return args[0].String()
	}
	return js.Global().Get("String").Invoke(args[0]).String()
}
