// Serve a directory over HTTP for local development
package main

import (
	"github.com/moonfall/devserve/cmd"
	_ "github.com/moonfall/devserve/cmd/all" // import all commands
)

func main() {
	cmd.Main()
}
