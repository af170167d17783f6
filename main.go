package main

import "github.com/username/criptofolio/src/cmd"

func main() {
	cmd.Execute()
}
