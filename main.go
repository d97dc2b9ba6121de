package main

import (
	"log"

	"cycle-insights/pkg/cli"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	cli.Execute()
}
