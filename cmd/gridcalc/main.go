// Package main provides the gridcalc command line: printing and converting
// sheet files, importing them into a database and serving a sheet over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gridcalc:", err)
		os.Exit(1)
	}
}
