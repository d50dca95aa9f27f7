package main

import "cleanops/cmd/cleanctl/root"

func main() {
	root.Execute()
}
