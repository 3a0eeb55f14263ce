// Command scratchpad reads and edits story feedback notes from the terminal.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
