package main

import "github.com/crystaldolphin/autohost/cmd"

func main() {
	cmd.Execute()
}
