package main

import "github.com/Grumbel/gesichtool/cmd"

func main() {
	cmd.Execute()
}
