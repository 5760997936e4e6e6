// Command incsim runs the incrementer firmware simulation and converts the
// firmware ROM images.
package main

import "github.com/sarchlab/incsim/incsim/cmd"

func main() {
	cmd.Execute()
}
