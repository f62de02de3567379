package main

import (
	"log"
	"simple-ledger-go/cli"
)

func main() {
	err := cli.Run()
	if err != nil {
		log.Fatal(err)
	}
}
