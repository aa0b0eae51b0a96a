package main

import (
	"github.com/binwrap/binwrap-go/cmd/binwrap/cmd"
)

func main() {
	cmd.Execute()
}
