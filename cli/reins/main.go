package main

import (
	"os"

	reinscmder "github.com/papercomputeco/reins/cmd/reins"
)

func main() {
	cmd := reinscmder.NewReinsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
