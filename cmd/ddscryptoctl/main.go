// Command ddscryptoctl drives the builtin AES-GCM-GMAC crypto key
// factory and its wire codecs from the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/secdds/ddscrypto/cmd/ddscryptoctl/commands"
	"github.com/secdds/ddscrypto/internal/secerr"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and maps the result to the process
// exit code convention: 0 on success, 1 when the failure is a
// CryptoError raised by the key factory or a wire codec, 2 for
// anything else (usage errors, flag parsing, I/O failures).
func run() int {
	err := commands.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintln(os.Stderr, "error:", err)

	var cryptoErr *secerr.CryptoError
	if errors.As(err, &cryptoErr) {
		return 1
	}
	return 2
}
