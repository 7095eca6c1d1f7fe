package main

import "feedmark/cmd"

func main() {
	cmd.Execute()
}
