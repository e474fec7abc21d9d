package main

import "github.com/theirongolddev/zenith/cmd"

func main() {
	cmd.Execute()
}
