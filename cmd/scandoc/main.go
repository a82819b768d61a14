package main

import "github.com/MeKo-Tech/scandoc/cmd/scandoc/cmd"

func main() {
	cmd.Execute()
}
