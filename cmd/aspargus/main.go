package main

import "github.com/aspargus/aspargus/internal/cli"

func main() {
	cli.Main()
}
