package main

import "lang-editor/internal/cli"

func main() {
	cli.Execute()
}
