package main

import "promptlab/internal/cli"

func main() {
	cli.Run()
}
