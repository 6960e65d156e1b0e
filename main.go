package main

import "github.com/chew-z/crop-identifier/cmd"

func main() {
	cmd.Execute()
}
