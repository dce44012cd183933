package main

import (
	"os"

	"github.com/jmhodges/clock"

	"p12expiry/internal/archive"
)

func main() {
	app := &app{
		source: archive.NewPKCS12Source(),
		clk:    clock.New(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(app.run(os.Args[1:]))
}
