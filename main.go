package main

import "github.com/mj1618/chatstress/cmd"

func main() {
	cmd.Execute()
}
