package main

import (
	"fmt"

	"go-gametree/util/logger"
)

type StoreCmd struct {
	Put StorePutCmd `cmd:"" help:"Store a tree file under a name"`
	Get StoreGetCmd `cmd:"" help:"Write a stored tree to a file"`
	Ls  StoreLsCmd  `cmd:"" help:"List stored trees"`
	Rm  StoreRmCmd  `cmd:"" help:"Delete a stored tree"`
}

type StorePutCmd struct {
	Name       string `arg:"" help:"Tree name"`
	File       string `arg:"" type:"existingfile" help:"Tree file"`
	RecordSize int    `short:"r" help:"Record size in bytes, depth byte included"`
}

func (cmd *StorePutCmd) Run(a *app) error {
	tree, err := a.open(a.allocator(), cmd.File, cmd.RecordSize, false)
	if err != nil {
		return err
	}
	defer tree.Close()

	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Put(cmd.Name, tree); err != nil {
		return err
	}
	logger.Component("store").WithField("name", cmd.Name).Info("tree stored")
	return nil
}

type StoreGetCmd struct {
	Name string `arg:"" help:"Tree name"`
	Out  string `arg:"" type:"path" help:"Output file"`
}

func (cmd *StoreGetCmd) Run(a *app) error {
	s, err := a.openStore(true)
	if err != nil {
		return err
	}
	defer s.Close()

	tree, err := s.Get(cmd.Name, a.allocator(), 0, nil)
	if err != nil {
		return err
	}
	defer tree.Close()

	if err := tree.WriteFile(cmd.Out); err != nil {
		return err
	}
	logger.Component("store").WithField("name", cmd.Name).WithField("file", cmd.Out).Info("tree written")
	return nil
}

type StoreLsCmd struct{}

func (cmd *StoreLsCmd) Run(a *app) error {
	s, err := a.openStore(true)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-24s %10d nodes %4d B/rec %12d B  %s\n",
			e.Name, e.NodesCount, e.RecordSize, e.Size, e.Description)
	}
	return nil
}

type StoreRmCmd struct {
	Name string `arg:"" help:"Tree name"`
}

func (cmd *StoreRmCmd) Run(a *app) error {
	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Delete(cmd.Name)
}
