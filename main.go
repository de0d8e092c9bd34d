package main

import "prreporter/cmd"

func main() {
	cmd.Execute()
}
