package main

import "PostureGuard/internal/cli"

func main() {
	cli.Execute()
}
