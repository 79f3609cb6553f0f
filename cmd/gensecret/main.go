package main

// Generate a random secret key suitable for the SECRET_KEY setting.

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

const keyLen = 32

func main() {
	key := make([]byte, keyLen)

	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "can't generate secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(key))
}
