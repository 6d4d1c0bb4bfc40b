package main

import "github.com/jmehdipour/omnichannel/cmd"

func main() {
	cmd.Execute()
}
