package main

import "productdesk/internal/cli"

func main() {
	cli.Execute()
}
