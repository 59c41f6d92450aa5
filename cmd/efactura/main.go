package main

import (
	"os"

	"github.com/facturis/efactura-go/cmd/efactura/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
