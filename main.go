package main

import "github.com/Tiliavir/clockstorm/cmd"

func main() {
	cmd.Execute()
}
