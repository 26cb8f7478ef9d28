package main

import (
	"log"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
