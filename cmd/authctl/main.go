package main

import "github.com/lecenter/dashboard/cmd/authctl/cmd"

func main() {
	cmd.Execute()
}
