package main

import (
	"log"

	"github.com/langpop/langpop/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
