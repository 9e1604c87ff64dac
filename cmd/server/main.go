package main

import (
	"log"

	"hrleave/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatalf("hrleave server failed: %v", err)
	}
}
