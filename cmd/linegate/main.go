package main

import "github.com/julienstroheker/linegate/internal/cli"

func main() {
	cli.Execute()
}
