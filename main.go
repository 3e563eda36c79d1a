package main

import (
	_ "embed"

	"github.com/haierkeys/obsidian-halo-publisher/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
