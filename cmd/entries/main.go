package main

import (
	"github.com/andrescamacho/entries-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
