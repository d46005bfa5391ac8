package main

import (
	"os"

	"github.com/weightdag/dagd/app"
)

func main() {
	if err := app.StartApp(); err != nil {
		os.Exit(1)
	}
}
