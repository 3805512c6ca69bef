package main

import "github.com/ukena18/Haci-sub000/internal/cli"

func main() {
	cli.Execute()
}
