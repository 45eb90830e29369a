// The chemreg binary is the command line client for a running
// ChemReg-Ledger API server.
package main

import (
	"os"

	"github.com/turtacn/ChemReg-Ledger/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
