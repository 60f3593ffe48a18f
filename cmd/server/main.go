package main

import "github.com/nguyentranbao-ct/catalog-discovery/cmd"

func main() {
	cmd.Execute()
}
