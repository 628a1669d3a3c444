package main

import "github.com/mcoot/classreg/internal/cli"

func main() {
	cli.Execute()
}
