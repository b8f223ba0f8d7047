package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apppkg "github.com/kk-code-lab/rpack/internal/app"
	"github.com/kk-code-lab/rpack/internal/config"
	"github.com/kk-code-lab/rpack/internal/errkind"
	fsutil "github.com/kk-code-lab/rpack/internal/fs"
	"github.com/kk-code-lab/rpack/internal/session"
	textutil "github.com/kk-code-lab/rpack/internal/textutil"
	"github.com/kk-code-lab/rpack/internal/tree"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// isTerminal reports whether the interactive shell can take over the
// terminal.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
}

// cli carries the state shared by every command of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	logFile    string
	chunkSize  int

	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "rpack [root]",
		Short: "Select files from a project tree and pack them into archives",
		Long: `rpack shows a project directory as a tree with tri-state checkboxes.
Selected files are packed into numbered zip archives of a fixed size, together
with a prompts file for sending them one part at a time. The selection is kept
in a cache file inside the root.

Without a root the interactive shell starts empty; paste or drop a folder to
open it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd == cmd.Root())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.closeLog != nil {
				return c.closeLog()
			}
			return nil
		},
		RunE: c.runInteractive,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rpack/config.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug messages")
	flags.StringVar(&c.logFile, "log-file", "", "append logs to this file")
	root.Flags().IntVarP(&c.chunkSize, "chunk-size", "n", 0, "files per archive (default from config)")

	root.AddCommand(
		c.statusCmd(),
		c.toggleCmd(),
		c.packCmd(),
		c.structureCmd(),
		c.treeCmd(),
		c.configCmd(),
	)
	return root
}

// setup loads the config and builds the logger. The interactive shell owns
// the terminal, so its logs go to --log-file or nowhere.
func (c *cli) setup(interactive bool) error {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.configPath = path

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = c.stderr
	switch {
	case c.logFile != "":
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		c.closeLog = f.Close
		if !c.verbose {
			level = slog.LevelInfo
		}
	case interactive:
		w = io.Discard
	}
	c.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

// resolveChunkSize prefers an explicit --chunk-size over the config value.
func (c *cli) resolveChunkSize(cmd *cobra.Command) (int, error) {
	if !cmd.Flags().Changed("chunk-size") {
		return c.cfg.ChunkSize, nil
	}
	if c.chunkSize < 1 {
		return 0, errkind.Param("chunk_size", c.chunkSize)
	}
	return c.chunkSize, nil
}

// open loads root into a new session. An unusable cache is reported and the
// command continues with an empty selection.
func (c *cli) open(root string) (*session.Session, error) {
	sess := session.New(c.cfg, c.logger)
	err := sess.Open(fsutil.ExpandUser(root))
	if session.IsWarning(err) {
		fmt.Fprintf(c.stderr, "rpack: %v\n", err)
		return sess, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *cli) runInteractive(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("the interactive shell needs a terminal; see rpack --help for batch commands")
	}
	chunkSize, err := c.resolveChunkSize(cmd)
	if err != nil {
		return err
	}

	opts := apppkg.Options{ChunkSize: chunkSize, Logger: c.logger}
	if len(args) == 1 {
		opts.Root = fsutil.ExpandUser(args[0])
	}

	app, err := apppkg.NewApplication(session.New(c.cfg, c.logger), opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	if app.Dirty() {
		c.logger.Info("quit with unsaved selection")
	}
	return nil
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <root>",
		Short: "Print the saved selection, one path per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(args[0])
			if err != nil {
				return err
			}
			paths, err := sess.Selection()
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(c.stdout, p)
			}
			return nil
		},
	}
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <root> <path>...",
		Short: "Toggle root-relative paths and save the selection",
		Long: `Toggle flips each path in order, cascading into directories, and then
saves the selection to the cache file. Use "." or "/" for the root itself.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(args[0])
			if err != nil {
				return err
			}
			for _, rel := range args[1:] {
				if err := sess.TogglePath(normalizeRelPath(rel)); err != nil {
					return err
				}
			}
			path, err := sess.Save()
			if err != nil {
				return err
			}
			checked, total := sess.Tree().Counts()
			fmt.Fprintf(c.stdout, "%d of %d file(s) selected, saved to %s\n", checked, total, path)
			return nil
		},
	}
}

// normalizeRelPath accepts OS separators and the "." and "/" spellings of
// the root.
func normalizeRelPath(rel string) string {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "." {
		return ""
	}
	return strings.TrimPrefix(rel, "./")
}

func (c *cli) packCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <root>",
		Short: "Pack the selected files into numbered zip archives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunkSize, err := c.resolveChunkSize(cmd)
			if err != nil {
				return err
			}
			sess, err := c.open(args[0])
			if err != nil {
				return err
			}
			report, err := sess.Pack(chunkSize)
			if err != nil {
				return err
			}

			for _, a := range report.Archives {
				if a.Err == nil {
					fmt.Fprintf(c.stdout, "%s\t%d file(s)\n", a.Path, a.Files)
				}
			}
			if report.Prompts != "" {
				fmt.Fprintln(c.stdout, report.Prompts)
			}
			for _, f := range report.Failures {
				fmt.Fprintf(c.stderr, "rpack: %v\n", f)
			}
			fmt.Fprintf(c.stdout, "packed %d file(s) into %d archive(s) in %s\n",
				report.Files(), report.Written(), report.OutputDir)
			return report.Err()
		},
	}
	cmd.Flags().IntVarP(&c.chunkSize, "chunk-size", "n", 0, "files per archive (default from config)")
	return cmd
}

func (c *cli) structureCmd() *cobra.Command {
	var toStdout bool
	cmd := &cobra.Command{
		Use:   "structure <root>",
		Short: "Write the directory structure of the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(args[0])
			if err != nil {
				return err
			}
			if toStdout {
				lines, err := sess.Structure()
				if err != nil {
					return err
				}
				for _, line := range lines {
					fmt.Fprintln(c.stdout, line)
				}
				return nil
			}
			path, err := sess.WriteStructure()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the structure instead of writing the file")
	return cmd
}

func (c *cli) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <root>",
		Short: "Print the whole tree with selection markers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.open(args[0])
			if err != nil {
				return err
			}
			writeTree(c.stdout, sess.Tree())
			return nil
		},
	}
}

func writeTree(w io.Writer, t *tree.Tree) {
	t.Walk(func(n *tree.Node) bool {
		marker := "[ ]"
		switch n.State {
		case tree.Checked:
			marker = "[x]"
		case tree.Partial:
			marker = "[-]"
		}
		name := textutil.SanitizeTerminalText(n.Name)
		if n.IsDir() {
			name += "/"
		}
		fmt.Fprintf(w, "%s %s%s\n", marker, strings.Repeat("  ", len(n.Segments)), name)
		return true
	})
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(c.configPath, force); err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "# %s\n", c.configPath)
			_, err = c.stdout.Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
