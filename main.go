package main

import "github.com/user/terrasight/cmd"

func main() {
	cmd.Execute()
}
