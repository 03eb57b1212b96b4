package main

import "erpimport/cmd"

func main() {
	cmd.Execute()
}
