// Converts a Solana keygen JSON keypair into a password protected .cwt file.
// Usage: go run ./cmd/seal_keypair -in payer.json -out payer.cwt -role payer
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/hello-greeter/internal/common"
	"github.com/AlexZinkM/hello-greeter/internal/crypto"
	"github.com/AlexZinkM/hello-greeter/internal/keys"

	"golang.org/x/term"
)

var (
	inPath  = flag.String("in", "", "keygen JSON keypair to seal")
	outPath = flag.String("out", "", "destination .cwt file")
	role    = flag.String("role", "payer", "role recorded in the file (payer or program)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if *inPath == "" || *outPath == "" {
		flag.Usage()
		return errors.New("both -in and -out are required")
	}

	key, err := keys.LoadPrivateKey(*inPath, nil)
	if err != nil {
		return err
	}
	defer clear(key)

	address := key.PublicKey().String()
	qr, err := common.QRCodeBase64(address)
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	defer clear(password)

	if err := crypto.SealKeypair(*outPath, *role, key, qr, password); err != nil {
		return fmt.Errorf("failed to seal keypair: %w", err)
	}

	fmt.Printf("sealed %s (%s) into %s\n", address, *role, *outPath)
	return nil
}

func readPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal: run interactively to enter password")
	}

	fmt.Fprint(os.Stderr, "New password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	repeat, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		clear(password)
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer clear(repeat)

	if !bytes.Equal(password, repeat) {
		clear(password)
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}
