package main

import "github.com/dynamisinc/cobra-poc-sub007/cmd"

func main() {
	cmd.Execute()
}
