package main

import "assetdump/cmd/assetdump/cmd"

func main() {
	cmd.Execute()
}
