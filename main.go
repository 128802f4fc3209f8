package main

import "github.com/agentic-research/fixtured/cmd"

func main() {
	cmd.Execute()
}
