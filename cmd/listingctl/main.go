package main

import (
	"os"

	"github.com/Edmond40/afari-real-estate-sub000/cmd/listingctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
