// Command gnew is the CLI entrypoint for the gnew version control engine.
package main

import "github.com/glazedonut/gnew/cli"

func main() {
	cli.Execute()
}
