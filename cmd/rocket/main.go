// Command rocket builds static sites from Rocket documents.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"nickandperla.net/rocket/internal/project"
)

var version = "0.3.0"

// CLI is the top-level command-line interface for rocket.
type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Build   buildCmd   `cmd:"" default:"1" help:"Compile the project in the current directory."`
	New     newCmd     `cmd:"" help:"Scaffold a new project."`
	Version versionCmd `cmd:"" help:"Print the rocket version."`
}

type buildCmd struct {
	Dir string `help:"Project directory." default:"." type:"existingdir"`
}

func (b *buildCmd) Run(log *slog.Logger) error {
	proj, err := project.Open(b.Dir, log)
	if err != nil {
		return err
	}
	defer proj.Close()
	return proj.Build()
}

type newCmd struct {
	Name string `arg:"" help:"Name of the project directory to create."`
}

func (n *newCmd) Run(log *slog.Logger) error {
	if err := project.Scaffold(n.Name); err != nil {
		return err
	}
	log.Info("project created", "name", n.Name)
	return nil
}

type versionCmd struct{}

func (versionCmd) Run(*slog.Logger) error {
	fmt.Println("rocket", version)
	return nil
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("rocket"),
		kong.Description("A homoiconic markup language for static sites."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ktx.FatalIfErrorf(ktx.Run(log))
}
