package main

import "github.com/KaramelBytes/cosmochem-cli/cmd"

func main() {
	cmd.Execute()
}
