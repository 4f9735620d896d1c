package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Packages
	manager "github.com/mutablelogic/go-artifactdb/pkg/manager"
	planner "github.com/mutablelogic/go-artifactdb/pkg/planner"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	upload "github.com/mutablelogic/go-artifactdb/pkg/upload"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type UploadCommands struct {
	Upload UploadCommand `cmd:"" group:"UPLOAD" help:"Upload a directory as a new version of a project"`
	Clone  CloneCommand  `cmd:"" group:"UPLOAD" help:"Create a new version which links to the files of an existing version"`
	Job    JobCommand    `cmd:"" group:"UPLOAD" help:"Get the status of an indexing job"`
}

// UploadFlags are the flags shared by upload and clone
type UploadFlags struct {
	Expires     uint          `name:"expires" help:"Number of days until the version expires (default: never)"`
	Private     bool          `name:"private" help:"Make a new project visible to viewers only"`
	Viewers     []string      `name:"viewer" help:"Viewers of a new project"`
	Owners      []string      `name:"owner" help:"Owners of a new project"`
	Concurrency int           `name:"concurrency" help:"Maximum number of transfers in flight (default: unlimited)"`
	Interval    time.Duration `name:"interval" help:"Interval between indexing status requests" default:"5s"`
	Wait        time.Duration `name:"wait" help:"Time to wait for indexing to complete" default:"600s"`
}

type UploadCommand struct {
	Project  string            `arg:"" name:"project" help:"Project name"`
	Version  string            `arg:"" name:"version" help:"Version to create"`
	Path     string            `arg:"" name:"path" help:"Local directory to upload (defaults to current directory)" optional:""`
	NoDedup  bool              `name:"no-dedup" help:"Upload every file, even when unchanged from the previous version"`
	Md5Field string            `name:"md5-field" help:"Metadata field holding the MD5 checksum" default:"md5sum"`
	Link     map[string]string `name:"link" help:"Link a path to an existing artifact instead of uploading it (path=project:path@version)"`
	Hidden   bool              `name:"hidden" help:"Include files and directories whose names begin with '.'"`
	UploadFlags
}

type CloneCommand struct {
	Source  string `arg:"" name:"source" help:"Version to clone from (project@version)"`
	Project string `arg:"" name:"project" help:"Project name"`
	Version string `arg:"" name:"version" help:"Version to create"`
	UploadFlags
}

type JobCommand struct {
	Job  string `arg:"" name:"job" help:"Job identifier"`
	Wait bool   `name:"wait" help:"Wait for the job to succeed or fail"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *UploadCommand) Run(ctx *Globals) error {
	// Read the files
	root := cmd.Path
	if root == "" {
		root = "."
	}
	contents, err := readContents(root, cmd.Hidden)
	if err != nil {
		return err
	}

	// Links replace local files with the same path
	links := make(map[string]schema.ArtifactId, len(cmd.Link))
	for path, value := range cmd.Link {
		id, err := schema.ParseArtifactId(value)
		if err != nil {
			return fmt.Errorf("--link %s: %w", path, err)
		}
		links[path] = id
		delete(contents, path)
	}
	if len(contents) == 0 && len(links) == 0 {
		return fmt.Errorf("no files to upload in %q", root)
	}

	mgr, _, err := ctx.Manager(cmd.sessionOpts()...)
	if err != nil {
		return err
	}
	result, err := mgr.Project(ctx.ctx, cmd.Project, cmd.Version, manager.ProjectRequest{
		ManifestRequest: planner.ManifestRequest{
			Paths:          planner.Checksums(contents),
			DedupLinkPaths: links,
			AutoDedupMd5:   !cmd.NoDedup,
			Md5Field:       cmd.Md5Field,
			Expires:        cmd.Expires,
		},
		Contents:    contents,
		Permissions: cmd.permissions(),
	})
	if err != nil {
		return err
	}
	return prettyJSON(result)
}

func (cmd *CloneCommand) Run(ctx *Globals) error {
	project, version, ok := strings.Cut(cmd.Source, "@")
	if !ok || project == "" || version == "" {
		return fmt.Errorf("invalid source %q, expected project@version", cmd.Source)
	}
	mgr, _, err := ctx.Manager(cmd.sessionOpts()...)
	if err != nil {
		return err
	}
	result, err := mgr.Clone(ctx.ctx, project, version, cmd.Project, cmd.Version, manager.CloneRequest{
		Expires:     cmd.Expires,
		Permissions: cmd.permissions(),
	})
	if err != nil {
		return err
	}
	return prettyJSON(result)
}

func (cmd *JobCommand) Run(ctx *Globals) error {
	if cmd.Wait {
		mgr, _, err := ctx.Manager()
		if err != nil {
			return err
		}
		result, err := mgr.Wait(ctx.ctx, schema.JobId(cmd.Job))
		if err != nil {
			return err
		}
		return prettyJSON(result)
	}

	c, err := ctx.Client()
	if err != nil {
		return err
	}
	status, err := c.GetJob(ctx.ctx, schema.JobId(cmd.Job))
	if err != nil {
		return err
	}
	return prettyJSON(status)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (flags UploadFlags) permissions() schema.UploadPermissions {
	return schema.UploadPermissions{
		Private: flags.Private,
		Viewers: flags.Viewers,
		Owners:  flags.Owners,
	}
}

func (flags UploadFlags) sessionOpts() []upload.Opt {
	return []upload.Opt{
		upload.WithConcurrency(flags.Concurrency),
		upload.WithPollConfig(upload.PollConfig{Interval: flags.Interval, Timeout: flags.Wait}),
	}
}

// readContents returns the content of every regular file under root, keyed
// by slash-separated path relative to root. Hidden files and directories are
// skipped unless hidden is true.
func readContents(root string, hidden bool) (map[string][]byte, error) {
	fsys := os.DirFS(root)
	contents := make(map[string][]byte)
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != "." && !hidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		contents[path] = data
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Clean(root), err)
	}
	return contents, nil
}
