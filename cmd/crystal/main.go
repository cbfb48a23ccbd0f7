package main

import "github.com/mcoot/crystalclicker/internal/cli"

func main() {
	cli.Execute()
}
