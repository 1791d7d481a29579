package main

import (
	"bytes"
	"fmt"
	"strings"

	"go-gametree/pkg/treealgo"
	"go-gametree/pkg/uftree"
	"go-gametree/pkg/walk"
	"go-gametree/util/logger"

	"github.com/pkg/errors"
)

type InfoCmd struct {
	File string `arg:"" type:"existingfile" help:"Tree file"`
}

func (cmd *InfoCmd) Run(a *app) error {
	info, err := uftree.Stat(cmd.File)
	if err != nil {
		return err
	}

	rs := "unknown"
	if info.RecordSize > 0 {
		rs = fmt.Sprint(info.RecordSize)
	}
	fmt.Fprintf(a.out, "version:      %s\n", info.Version)
	fmt.Fprintf(a.out, "description:  %s\n", info.Version.Description)
	fmt.Fprintf(a.out, "format:       %d\n", info.Format)
	fmt.Fprintf(a.out, "nodes:        %d\n", info.NodesCount)
	fmt.Fprintf(a.out, "record size:  %s\n", rs)
	fmt.Fprintf(a.out, "body offset:  %d\n", info.BodyOffset)
	fmt.Fprintf(a.out, "user data:    %d bytes\n", info.UserDataLen)
	fmt.Fprintf(a.out, "file size:    %d bytes\n", info.FileSize)
	return nil
}

type DumpCmd struct {
	File       string `arg:"" type:"existingfile" help:"Tree file"`
	RecordSize int    `short:"r" help:"Record size in bytes, depth byte included"`
	Start      int64  `short:"s" help:"First node to print"`
	Limit      int    `short:"n" default:"50" help:"Maximum number of nodes to print (0 = all)"`
	FDA        bool   `help:"Map the file instead of reading it"`
}

func (cmd *DumpCmd) Run(a *app) error {
	alloc := a.allocator()
	tree, err := a.open(alloc, cmd.File, cmd.RecordSize, cmd.FDA)
	if err != nil {
		return err
	}
	defer tree.Close()

	printed := 0
	w := &walk.UF[struct{}]{
		PruneIf: func(*uftree.Tree, int64, int) bool {
			return cmd.Limit > 0 && printed >= cmd.Limit
		},
		OnNodeBegin: func(t *uftree.Tree, f *walk.UFFrame[struct{}], depth int) bool {
			fmt.Fprintf(a.out, "%8d %s%d %x\n", f.Node, strings.Repeat("  ", depth), depth, t.Payload(f.Node))
			printed++
			return true
		},
	}
	return w.Walk(tree, cmd.Start)
}

type CompareCmd struct {
	A          string `arg:"" type:"existingfile" help:"First tree file"`
	B          string `arg:"" type:"existingfile" help:"Second tree file"`
	RecordSize int    `short:"r" help:"Record size in bytes, depth byte included"`
}

func (cmd *CompareCmd) Run(a *app) error {
	alloc := a.allocator()
	t1, err := a.open(alloc, cmd.A, cmd.RecordSize, false)
	if err != nil {
		return err
	}
	defer t1.Close()
	t2, err := a.open(alloc, cmd.B, cmd.RecordSize, false)
	if err != nil {
		return err
	}
	defer t2.Close()

	c := treealgo.CompareUFTrees(t1, 0, t2, 0, samePayload)
	if c.Equal() {
		fmt.Fprintln(a.out, "equal")
		return nil
	}
	fmt.Fprintf(a.out, "%s at node %d\n", c.Result, c.DiffersAt)
	return errors.Wrapf(ErrTreesDiffer, "%s: %s", cmd.A, cmd.B)
}

type VerifyCmd struct {
	File       string `arg:"" type:"existingfile" help:"Tree file"`
	RecordSize int    `short:"r" help:"Record size in bytes, depth byte included"`
}

func (cmd *VerifyCmd) Run(a *app) error {
	log := logger.Component("verify")
	alloc := a.allocator()

	std, err := a.open(alloc, cmd.File, cmd.RecordSize, false)
	if err != nil {
		return errors.Wrap(err, "standard read")
	}
	defer std.Close()

	fda, err := uftree.OpenFDA(cmd.File, alloc, std.RecordSize(), nil)
	if err != nil {
		return errors.Wrap(err, "direct access")
	}
	defer fda.Close()

	if c := treealgo.CompareUFTrees(std, 0, fda, 0, samePayload); !c.Equal() {
		return errors.Wrapf(ErrTreesDiffer, "standard and direct access reads: %s at node %d", c.Result, c.DiffersAt)
	}

	leaves := int64(0)
	if std.NodesCount() > 0 {
		if leaves, err = treealgo.CountUFLeaves(std, 0); err != nil {
			return err
		}
	}
	log.WithField("file", cmd.File).Info("verified")
	fmt.Fprintf(a.out, "ok: %d nodes, %d leaves, record size %d\n", std.NodesCount(), leaves, std.RecordSize())
	return nil
}

func samePayload(t1 *uftree.Tree, i1 int64, t2 *uftree.Tree, i2 int64) bool {
	return bytes.Equal(t1.Payload(i1), t2.Payload(i2))
}
