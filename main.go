package main

import (
	"os"

	"github.com/Eursukkul/event-registration/cmd"
	log "github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
