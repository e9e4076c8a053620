package main

import "github.com/mvp-joe/verus-rewrite/internal/cli"

func main() {
	cli.Execute()
}
