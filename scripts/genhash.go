//go:build ignore

// Prints bcrypt hashes for seeding accounts directly in the database.
//
//	go run scripts/genhash.go <password> [password...]
package main

import (
	"fmt"
	"os"

	"go-jobboard-backend/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run scripts/genhash.go <password> [password...]")
		os.Exit(2)
	}

	for _, pass := range os.Args[1:] {
		hash, err := auth.HashPassword(pass)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println(hash)
	}
}
