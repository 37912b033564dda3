package main

import (
	"fmt"
	"os"

	"github.com/hayeah/repobundle"
)

func main() {
	app, err := repobundle.InitApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing repobundle: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
