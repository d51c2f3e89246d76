// Package all imports all the commands
package all

import (
	// Active commands
	_ "github.com/moonfall/devserve/cmd"
	_ "github.com/moonfall/devserve/cmd/mimetypes"
	_ "github.com/moonfall/devserve/cmd/serve"
	_ "github.com/moonfall/devserve/cmd/version"
)
