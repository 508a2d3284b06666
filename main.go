package main

import (
	_ "embed"

	"github.com/haierkeys/objective-share-service/cmd"
)

// @title Objective Share Service API
// @version 0.1.0
// @description Capability-token sharing for objectives: share links, invites and guest access.
// @BasePath /
// @securityDefinitions.apikey OwnerAuthToken
// @in header
// @name Authorization

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
