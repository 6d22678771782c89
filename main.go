// The main package for the exporter executable.
package main

import "github.com/webflowx/exporter/cmd"

func main() {
	cmd.Execute()
}
