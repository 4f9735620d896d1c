package main

import (
	"io"
	"os"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ProjectCommands struct {
	Projects ProjectsCommand `cmd:"" group:"PROJECT" help:"List projects and their versions"`
	Versions VersionsCommand `cmd:"" group:"PROJECT" help:"List the versions of a project"`
	Metadata MetadataCommand `cmd:"" group:"PROJECT" help:"Get the metadata of a project version, or of every version"`
	File     FileCommand     `cmd:"" group:"PROJECT" help:"Download a file, or get its metadata"`
	Id       IdCommand       `cmd:"" group:"PROJECT" help:"Parse an artifact identifier"`
}

type ProjectsCommand struct {
	Limit uint `name:"limit" short:"n" help:"Maximum number of projects to return" default:"50"`
}

type VersionsCommand struct {
	Project string `arg:"" name:"project" help:"Project name"`
}

type MetadataCommand struct {
	Project string `arg:"" name:"project" help:"Project name"`
	Version string `arg:"" name:"version" help:"Version (defaults to every version)" optional:""`
	Raw     bool   `name:"raw" help:"Remove the fields added by the server"`
}

type FileCommand struct {
	Id         string `arg:"" name:"id" help:"Artifact identifier (project:path@version)"`
	Output     string `name:"output" short:"o" help:"Write to file instead of stdout"`
	Metadata   bool   `name:"metadata" short:"m" help:"Get the metadata of the file instead of its content"`
	FollowLink bool   `name:"follow-link" help:"Get the metadata of the linked artifact when the file is a link"`
}

type IdCommand struct {
	Id string `arg:"" name:"id" help:"Artifact identifier (project:path@version)"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *ProjectsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	projects, err := c.ListProjects(ctx.ctx, cmd.Limit)
	if err != nil {
		return err
	}
	return prettyJSON(projects)
}

func (cmd *VersionsCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	versions, err := c.ListProjectVersions(ctx.ctx, cmd.Project)
	if err != nil {
		return err
	}
	return prettyJSON(versions)
}

func (cmd *MetadataCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	metadata, err := c.GetProjectMetadata(ctx.ctx, cmd.Project, cmd.Version)
	if err != nil {
		return err
	}
	if cmd.Raw {
		for i, doc := range metadata {
			metadata[i] = doc.Raw()
		}
	}
	return prettyJSON(metadata)
}

func (cmd *FileCommand) Run(ctx *Globals) error {
	id, err := schema.ParseArtifactId(cmd.Id)
	if err != nil {
		return err
	}
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	if cmd.Metadata {
		doc, err := c.GetFileMetadata(ctx.ctx, id, cmd.FollowLink)
		if err != nil {
			return err
		}
		return prettyJSON(doc)
	}

	var out io.Writer = os.Stdout
	var outFile *os.File
	if cmd.Output != "" {
		outFile, err = os.Create(cmd.Output)
		if err != nil {
			return err
		}
		out = outFile
	}
	_, err = c.ReadFile(ctx.ctx, id, func(chunk []byte) error {
		_, err := out.Write(chunk)
		return err
	})
	if outFile != nil {
		outFile.Close()
		if err != nil {
			os.Remove(cmd.Output)
		}
	}
	return err
}

func (cmd *IdCommand) Run(ctx *Globals) error {
	id, err := schema.ParseArtifactId(cmd.Id)
	if err != nil {
		return err
	}
	return prettyJSON(map[string]string{
		"project": id.Project,
		"path":    id.Path,
		"version": id.Version,
	})
}
