// Command pspctl is the offline companion to the router: it generates
// labelled synthetic datasets and checks the failure model's calibration.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
