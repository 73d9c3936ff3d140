package main

import "github.com/agentpay/agentpay/cmd"

func main() {
	cmd.Execute()
}
