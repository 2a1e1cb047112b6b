// invclean cleans a raw network-inventory export into normalized records and
// an anomaly ledger.
//
// Usage:
//
//	invclean clean [input] [--out=<csv>] [--ledger=<path>] [--ledger-format=json|yaml]
//	invclean check <field> <value>
//	invclean rules
//	invclean ledger [path] [--baseline=<ledger>]
//	invclean config init [path] [--force]
//	invclean config show
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
