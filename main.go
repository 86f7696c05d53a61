package main

import "github.com/chrisdamba/deliverydash/cmd"

func main() {
	cmd.Execute()
}
