package main

import "github.com/theirongolddev/pennywise/cmd"

func main() {
	cmd.Execute()
}
