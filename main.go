package main

import (
	"os"

	"github.com/mattsolo1/grove-policyscan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
