package main

import (
	"io"
	"os"

	"go-gametree/config"
	"go-gametree/pkg/allocator"
	"go-gametree/pkg/treestore"
	"go-gametree/pkg/uftree"
	"go-gametree/util/logger"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

var (
	ErrRecordSizeUnknown = errors.New("record size unknown, pass --record-size")
	ErrTreesDiffer       = errors.New("trees differ")
)

type CLI struct {
	Config   string `short:"c" type:"path" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" name:"log-level" help:"Log level (overrides config)"`
	DB       string `name:"db" type:"path" help:"Tree store database (overrides config)"`

	Info    InfoCmd    `cmd:"" help:"Show the headers of a tree file"`
	Dump    DumpCmd    `cmd:"" help:"Print the records of a tree file"`
	Compare CompareCmd `cmd:"" help:"Compare two tree files"`
	Verify  VerifyCmd  `cmd:"" help:"Check a tree file reads the same in standard and direct access mode"`
	Store   StoreCmd   `cmd:"" help:"Manage the tree store"`
}

// app carries what commands share: the resolved config and the output.
type app struct {
	cfg *config.AppConfig
	out io.Writer
}

func newApp(cli *CLI, out io.Writer) (*app, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.DB != "" {
		cfg.Store.Path = cli.DB
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	return &app{cfg: cfg, out: out}, nil
}

func (a *app) allocator() *allocator.Allocator {
	return allocator.New(a.cfg.Allocator.Options())
}

// recordSize picks the record size of the tree at path: the flag, then the
// config, then the one inferred from the file.
func (a *app) recordSize(flag int, path string) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if a.cfg.Tree.RecordSize > 0 {
		return a.cfg.Tree.RecordSize, nil
	}
	info, err := uftree.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.RecordSize == 0 {
		return 0, errors.Wrap(ErrRecordSizeUnknown, path)
	}
	return info.RecordSize, nil
}

func (a *app) open(alloc *allocator.Allocator, path string, recordSize int, fda bool) (*uftree.Tree, error) {
	rs, err := a.recordSize(recordSize, path)
	if err != nil {
		return nil, err
	}
	opts := &uftree.ReadOptions{
		AfterRead: (*uftree.Tree).Validate,
		Writable:  a.cfg.Tree.Writable,
	}
	if fda || a.cfg.Tree.FDA {
		return uftree.OpenFDA(path, alloc, rs, opts)
	}
	return uftree.ReadFile(path, alloc, rs, opts)
}

func (a *app) openStore(readOnly bool) (*treestore.Store, error) {
	opts, err := a.cfg.Store.Options(readOnly)
	if err != nil {
		return nil, err
	}
	return treestore.Open(a.cfg.Store.Path, opts)
}

func execute(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gametree"),
		kong.Description("Inspect, verify and store flat game trees"),
		kong.UsageOnError(),
		kong.Writers(out, out),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	a, err := newApp(&cli, out)
	if err != nil {
		return err
	}
	return ctx.Run(a)
}

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(val interface{}) {
	logger.L.Error(val)
	os.Exit(1)
}
