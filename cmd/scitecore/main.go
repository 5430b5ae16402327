// Command scitecore is the non-GUI host-application engine described in
// SPEC_FULL.md: it loads the layered property store, wires Buffer/JobQueue/
// ToolRunner/Director/Extension into a Coordinator, and exposes the
// operations of spec §6's CLI surface as urfave/cli subcommands, following
// the teacher's cmd/lci/main.go shape (global flags, a Before hook building
// shared state, one Command per operation).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scite-core/internal/buffer"
	"github.com/standardbeagle/scite-core/internal/config"
	"github.com/standardbeagle/scite-core/internal/coordinator"
	"github.com/standardbeagle/scite-core/internal/debug"
	"github.com/standardbeagle/scite-core/internal/director"
	"github.com/standardbeagle/scite-core/internal/extension"
	"github.com/standardbeagle/scite-core/internal/jobqueue"
	"github.com/standardbeagle/scite-core/internal/props"
	"github.com/standardbeagle/scite-core/internal/toolrunner"
	"github.com/standardbeagle/scite-core/internal/version"
)

var (
	coord        *coordinator.Coordinator
	cleanupFuncs []func()
)

// buildCoordinator assembles the layered PropertyStore (spec §3) and every
// subsystem it anchors, mirroring loadConfigWithOverrides + the rest of the
// teacher's Before hook.
func buildCoordinator(c *cli.Context) error {
	base := props.New(false)
	if err := config.LoadDefaults(base); err != nil {
		return fmt.Errorf("load embedded defaults: %w", err)
	}

	home, _ := os.UserHomeDir()
	if h := os.Getenv("SciTE_USERHOME"); h != "" {
		home = h
	}
	userProps := props.NewLayered(base, false)
	userProps.ReadFile(filepath.Join(home, ".SciTEUser.properties"), home)

	abbrevPath := c.String("abbrev")
	if abbrevPath == "" {
		abbrevPath = filepath.Join(home, "abbrev.properties")
	}
	config.LoadAbbreviations(userProps, abbrevPath)

	scratch, paths := config.ParseCLIOverlay(c.Args().Slice(), userProps)

	bufs := buffer.New(scratch.GetInt("buffers.maximum", buffer.DefaultCapacity), scratch)
	jobs := jobqueue.New()
	tools := toolrunner.New(jobs, noopOutputPane{}, func(fn func()) { fn() })
	ext := extension.NewHub()

	var dir *director.Director
	if requestName := scratch.Get("ipc.request.name"); requestName != "" || scratch.Get("ipc.director.name") != "" {
		dir = director.New(os.TempDir(), os.Getpid(), nil)
	}

	coord = coordinator.New(bufs, scratch, jobs, tools, dir, ext, nil)

	if dir != nil {
		dir.SetDispatcher(coord.DirectorDispatcher())
		if err := dir.Initialise(scratch.Get("ipc.request.name"), scratch.Get("ipc.director.name")); err != nil {
			debug.Log("COORD", "director bootstrap failed: %v\n", err)
			os.Exit(3)
		}
		cleanupFuncs = append(cleanupFuncs, dir.Finalise)
	}

	for _, p := range paths {
		if err := coord.OpenFile(p); err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", p, err)
		}
	}
	return nil
}

type noopOutputPane struct{}

func (noopOutputPane) Append(line string) {}
func (noopOutputPane) EnsureVisible()     {}
func (noopOutputPane) MoveSelectionToEnd() {}

func main() {
	app := &cli.App{
		Name:    "scitecore",
		Usage:   "non-GUI host engine: buffers, properties, jobs, director IPC",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "abbrev", Usage: "abbreviations file path"},
		},
		Before: func(c *cli.Context) error {
			return buildCoordinator(c)
		},
		Commands: []*cli.Command{
			openCommand,
			{Name: "job", Usage: "job queue operations", Subcommands: []*cli.Command{jobRunCommand}},
			{Name: "director", Usage: "Director IPC", Subcommands: []*cli.Command{directorServeCommand}},
			{Name: "props", Usage: "property store access", Subcommands: []*cli.Command{propsGetCommand, propsSetCommand}},
			{Name: "session", Usage: "session files", Subcommands: []*cli.Command{sessionSaveCommand, sessionLoadCommand}},
			{Name: "diag", Usage: "diagnostics", Subcommands: []*cli.Command{diagDumpCommand}},
		},
	}

	defer func() {
		for _, cleanup := range cleanupFuncs {
			cleanup()
		}
	}()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "scitecore: %v\n", err)
		os.Exit(1)
	}
}

var openCommand = &cli.Command{
	Name:      "open",
	Usage:     "open a file into the buffer set",
	ArgsUsage: "<path>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("open requires a path", 1)
		}
		return coord.OpenFile(c.Args().First())
	},
}

var jobRunCommand = &cli.Command{
	Name:  "run",
	Usage: "run the build.command job chain",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "read a Job as JSON from stdin instead of build.command"},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		if c.Bool("json") {
			data, err := readAllStdin()
			if err != nil {
				return err
			}
			job, err := jobqueue.ParseJobJSON(data)
			if err != nil {
				return err
			}
			coord.Jobs.Clear()
			coord.Jobs.Add(job)
			return coord.Tools.ExecuteAll(ctx)
		}
		return coord.RunBuildCommand(ctx)
	},
}

var directorServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "block, servicing Director IPC until interrupted",
	Action: func(c *cli.Context) error {
		if coord.Director == nil {
			return cli.Exit("no director pipe configured (set ipc.request.name or ipc.director.name)", 1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

var propsGetCommand = &cli.Command{
	Name:      "get",
	Usage:     "print one expanded property value",
	ArgsUsage: "<key>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("props get requires a key", 1)
		}
		fmt.Println(coord.Props.GetExpanded(c.Args().First()))
		return nil
	},
}

var propsSetCommand = &cli.Command{
	Name:      "set",
	Usage:     "set a property for this session",
	ArgsUsage: "<key>=<value>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("props set requires key=value", 1)
		}
		key, value, ok := cutEq(c.Args().First())
		if !ok {
			return cli.Exit("expected key=value", 1)
		}
		coord.Props.Set(key, value)
		return nil
	},
}

var sessionSaveCommand = &cli.Command{
	Name:      "save",
	Usage:     "save the session (open buffers, cursor positions)",
	ArgsUsage: "<path>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("session save requires a path", 1)
		}
		return config.NewSessionStore().Save(c.Args().First(), coord.Buffers)
	},
}

var sessionLoadCommand = &cli.Command{
	Name:      "load",
	Usage:     "load a session and open its buffers",
	ArgsUsage: "<path>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("session load requires a path", 1)
		}
		entries, _, err := config.NewSessionStore().Load(c.Args().First())
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := coord.OpenFile(e.Path.String()); err != nil {
				fmt.Fprintf(os.Stderr, "open %s: %v\n", e.Path.String(), err)
			}
		}
		return nil
	},
}

type diagDump struct {
	Buffers       []diagBuffer `toml:"buffers"`
	CurrentBuffer int          `toml:"current_buffer"`
	JobsQueued    int          `toml:"jobs_queued"`
	DirectorPipes int          `toml:"director_notify_pipes"`
}

type diagBuffer struct {
	Path  string `toml:"path"`
	Dirty bool   `toml:"dirty"`
}

var diagDumpCommand = &cli.Command{
	Name:  "dump",
	Usage: "dump BufferSet/JobQueue/Director state as TOML for bug reports",
	Action: func(c *cli.Context) error {
		dump := diagDump{CurrentBuffer: coord.Buffers.Current(), JobsQueued: len(coord.Jobs.Jobs())}
		for i := 0; i < coord.Buffers.Len(); i++ {
			b := coord.Buffers.At(i)
			dump.Buffers = append(dump.Buffers, diagBuffer{Path: b.Path.String(), Dirty: b.Dirty})
		}
		if coord.Director != nil {
			dump.DirectorPipes = coord.Director.NotifyPipeCount()
		}
		out, err := toml.Marshal(dump)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func cutEq(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func readAllStdin() ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}
