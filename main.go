package main

import (
	"os"

	"github.com/caredesk/caredesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
