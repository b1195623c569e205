package main

import "xctasks/internal/cli"

func main() {
	cli.Execute()
}
