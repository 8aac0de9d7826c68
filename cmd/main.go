package main

import (
	cmd "github.com/kerbaras/pokewall/cmd/pokewall"
)

func main() {
	cmd.Execute()
}
