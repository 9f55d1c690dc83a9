// Command php runs PHP in the version selected for the working directory.
// It behaves like `pvm exec -- <args>`.
package main

import "pvm/internal/cli"

func main() {
	cli.ExecutePHP()
}
