package main

import "github.com/codeboard-app/codeswitch/cmd/codeswitch/cmd"

func main() {
	cmd.Execute()
}
