package main

import (
	"civfeed/cmd"
)

func main() {
	cmd.Execute()
}
