package main

import (
	"github.com/starql/starql/cmd"
)

func main() {
	cmd.Execute()
}
