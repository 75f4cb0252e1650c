package main

import "github.com/naka-gawa/idealab/cmd"

func main() {
	cmd.Execute()
}
