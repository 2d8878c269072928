package main

import "chitsmart/cmd"

func main() {
	cmd.Execute()
}
