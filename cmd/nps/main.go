package main

import cmd "github.com/reillypo/nps-explorer/internal/cli"

func main() {
	cmd.Execute()
}
