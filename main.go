// Package main is the entry point for vidloop.
package main

import (
	"github.com/samber/lo"
	"github.com/vidloop/vidloop/cmd"
	"github.com/vidloop/vidloop/config"
	"github.com/vidloop/vidloop/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
