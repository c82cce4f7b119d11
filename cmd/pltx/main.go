package main

import "github.com/baksi-org/pltx/cmd/pltx/cmd"

func main() {
	cmd.Execute()
}
