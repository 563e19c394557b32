package main

import (
	"github.com/langpop/langpop/pkg/cli"
)

func main() {
	cli.Execute()
}
