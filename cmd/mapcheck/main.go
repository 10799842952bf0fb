// Command mapcheck validates and converts the campus map assets.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
