package main

import "styledecor-server/cli"

func main() {
	cli.Execute()
}
