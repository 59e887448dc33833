package main

import (
	"github.com/pfrederiksen/courtwatch/internal/cli"
)

func main() {
	cli.Execute()
}
