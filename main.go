package main

import (
	"os"

	"github.com/delimatsuo/lifestylevideos-short-factory-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
