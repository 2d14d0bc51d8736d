// Command throng runs agent populations from the command line.
package main

import "github.com/sarchlab/throng/cmd/throng/cmd"

func main() {
	cmd.Execute()
}
