package main

import "github.com/tmacready/daybreak/cmd/daybreak/cmd"

func main() {
	cmd.Execute()
}
