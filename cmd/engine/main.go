// Command engine is the entrypoint for the project finance evaluation
// engine: serve, evaluate, and validate are all registered as subcommands
// of the cobra root command in cmd/cli.
package main

import (
	cmd "pfengine/cmd/cli"
)

func main() {
	cmd.Execute()
}
