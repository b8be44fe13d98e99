package main

import "github.com/masmgr/darcslog/cmd"

func main() {
	cmd.Run()
}
