package main

import "github.com/mselser95/bracket-arb/cmd"

func main() {
	cmd.Execute()
}
