package main

import (
	"github.com/ramishka-devx/inquiry-system-api/cmd"
)

func main() {
	cmd.Execute()
}
