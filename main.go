package main

import "github.com/goasutlor/flexideploy/cmd"

func main() {
	cmd.Execute()
}
