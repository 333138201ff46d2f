package main

import "driftmap/cmd/driftmap-cli/cmd"

func main() {
	cmd.Execute()
}
