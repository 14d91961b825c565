package main

import "github.com/eslsoft/masterly/cmd"

func main() {
	cmd.Execute()
}
