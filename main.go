package main

import "github.com/gcpath/gcpath/cmd"

func main() {
	cmd.Execute()
}
