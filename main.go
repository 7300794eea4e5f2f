package main

import (
	"os"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
