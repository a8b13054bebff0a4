// Package main implements the accounts-api command: the HTTP server plus
// migration and password hashing utilities.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
