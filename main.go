package main

import "github.com/ferrous-ci/rustgate/cmd"

func main() {
	cmd.Execute()
}
