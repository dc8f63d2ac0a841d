package main

import "hour-sync/cmd"

func main() {
	cmd.Execute()
}
