package main

import "github.com/KaruG1999/roster/cmd"

func main() {
	cmd.Execute()
}
