package main

import "pvm/internal/cli"

func main() {
	cli.Execute()
}
