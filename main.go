package main

import "github.com/dotcommander/tqa/cmd"

func main() {
	cmd.Execute()
}
