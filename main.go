package main

import "foodgram/cmd/cli"

func main() {
	cli.Execute()
}
