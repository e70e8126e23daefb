package main

import "github.com/Tpg2004/nomora/cmd"

func main() {
	cmd.Execute()
}
