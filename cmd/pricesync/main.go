package main

import (
	"os"

	"hotmart-price-sync/cmd/pricesync/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
