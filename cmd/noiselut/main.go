package main

import "github.com/MeKo-Tech/noiselut/internal/cmd"

func main() {
	cmd.Execute()
}
