package main

import "github.com/privatecounsel/leadsite/cmd"

func main() {
	cmd.Execute()
}
