package main

import "github.com/evolute-studio/evolute-dojo-server-sub001/cmd"

func main() {
	cmd.Execute()
}
