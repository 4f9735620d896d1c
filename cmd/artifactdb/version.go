package main

import (
	"os"

	// Packages
	version "github.com/mutablelogic/go-artifactdb/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommands struct {
	Version VersionCommand `cmd:"" group:"MISC" help:"Print the version of this tool"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	_, err := os.Stdout.Write(version.JSON(ctx.vars["EXEC"]))
	return err
}
