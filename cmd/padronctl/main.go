// Command padronctl runs the roster pipeline from the command line: inspect
// the auto-mapping, convert a roster to the normalized CSV offline, import it
// into the patients table, and generate the obras sociales seed.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
