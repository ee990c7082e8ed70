package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"escrow-broker.backend/pkg/crypto"
)

var (
	stdout         io.Writer = os.Stdout
	generateHashFn           = crypto.HashPassword
	fatalfFn                 = log.Fatalf
)

var errNoPassword = errors.New("usage: genhash <password>")

// run hashes the first argument with the same cost the server uses,
// for seeding admin accounts directly in the database.
func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "" {
		return errNoPassword
	}
	if err := crypto.ValidatePasswordStrength(args[0]); err != nil {
		return err
	}

	hash, err := generateHashFn(args[0])
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Args[1:], stdout); err != nil {
		fatalfFn("%v", err)
	}
}
