package main

import (
	"os"

	"github.com/0xERR0R/zonegen/cmd"
	"github.com/0xERR0R/zonegen/log"
	"github.com/0xERR0R/zonegen/util"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !util.WasShown(err) {
			log.Log().Error(err)
		}

		os.Exit(util.ExitCode(err))
	}
}
