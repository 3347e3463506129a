// Command hash-generator prints bcrypt hashes for passwords given as
// arguments, checking each against the account password rules. It is used
// to seed users directly in the database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt work factor")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] password...")
		os.Exit(2)
	}

	if failed := hashAll(os.Stdout, flag.Args(), *cost); failed > 0 {
		os.Exit(1)
	}
}

// hashAll writes one hash per valid password and returns how many were
// rejected.
func hashAll(w io.Writer, passwords []string, cost int) int {
	hasher := auth.NewBcryptHasher(cost)
	failed := 0

	for i, password := range passwords {
		if err := domain.ValidatePassword(password); err != nil {
			fmt.Fprintf(w, "#%d: rejected: %v\n", i+1, err)
			failed++
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(w, "#%d: error: %v\n", i+1, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "#%d: %s\n", i+1, hash)
	}
	return failed
}
