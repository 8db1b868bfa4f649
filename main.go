package main

import "github.com/mpapenbr/racemetrics/cmd"

func main() {
	cmd.Execute()
}
