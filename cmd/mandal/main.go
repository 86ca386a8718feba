// Command mandal is a terminal mandalart board: one central goal, eight
// goals around it, eight actions per goal.
package main

import (
	"os"

	"github.com/vanderheijden86/mandal/pkg/debug"
)

func main() {
	err := NewRootCmd().Execute()
	debug.Sync()
	if err != nil {
		os.Exit(1)
	}
}
