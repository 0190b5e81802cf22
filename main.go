package main

import (
	"github.com/go-imsto/imwebp/cmd"
)

func main() {
	cmd.Main()
}
