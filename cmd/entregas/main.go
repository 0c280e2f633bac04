// Command entregas is the batch companion of the LogisticSmart server. It
// renders the per-deliverer delivery reports for a set of days from a
// spreadsheet and manages the accounts of the credential store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Erro:", err)
		os.Exit(1)
	}
}
