package main

import (
	"fmt"
	"os"

	"github.com/rokkenjima/watchface/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
