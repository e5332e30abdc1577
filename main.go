package main

import "github.com/kozaktomas/batch-collage/cmd"

func main() {
	cmd.Execute()
}
