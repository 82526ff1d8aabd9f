package main

import "github.com/example/leitnerbot/internal/cli"

func main() {
	cli.Execute()
}
