package main

import "github.com/mvp-joe/gerber2nc/internal/cli"

func main() {
	cli.Execute()
}
