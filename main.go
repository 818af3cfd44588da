package main

import "github.com/peopleops/hr-platform/cmd"

func main() {
	cmd.Execute()
}
