package main

import "github.com/okarabey/kitapara/cmd"

func main() {
	cmd.Execute()
}
