package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/uftree"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// writeTree writes a 7 node binary tree of 3 byte records and returns its
// path.
func writeTree(t *testing.T, dir, name string, tweak func(*uftree.Tree)) string {
	tree, err := uftree.New(allocator.New(nil), 7, 3)
	require.NoError(t, err)
	defer tree.Close()

	for i, d := range []uint8{0, 1, 2, 2, 1, 2, 2} {
		tree.SetDepth(int64(i), d)
		tree.Payload(int64(i))[0] = byte(0xA0 + i)
		tree.Payload(int64(i))[1] = d
	}
	tree.Version.Description = name
	require.NoError(t, tree.SetUserData(map[string]string{"game": "kuhn"}))
	if tweak != nil {
		tweak(tree)
	}

	path := filepath.Join(dir, name+".uft")
	require.NoError(t, tree.WriteFile(path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	err := execute(args, out)
	return out.String(), err
}

func TestInfo(t *testing.T) {
	path := writeTree(t, t.TempDir(), "kuhn", nil)

	out, err := run(t, "info", path)
	require.NoError(t, err)
	require.Contains(t, out, "description:  kuhn")
	require.Contains(t, out, "nodes:        7")
	require.Contains(t, out, "record size:  3")
	require.Contains(t, out, "format:       2")
}

func TestDump(t *testing.T) {
	path := writeTree(t, t.TempDir(), "kuhn", nil)

	out, err := run(t, "dump", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, "       0 0 a000", lines[0])
	require.Equal(t, "       2     2 a202", lines[2])

	out, err = run(t, "dump", "--fda", "-r", "3", "-n", "2", "-s", "4", path)
	require.NoError(t, err)
	require.Equal(t, "       4   1 a401\n       5     2 a502\n", out)

	_, err = run(t, "dump", "-s", "9", path)
	require.True(t, errors.Is(err, uftree.ErrIndexOutOfRange))
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	a := writeTree(t, dir, "a", nil)
	b := writeTree(t, dir, "b", nil)
	c := writeTree(t, dir, "c", func(tree *uftree.Tree) { tree.Payload(5)[0] = 0 })
	d := writeTree(t, dir, "d", func(tree *uftree.Tree) { tree.SetDepth(3, 1) })

	out, err := run(t, "compare", a, b)
	require.NoError(t, err)
	require.Equal(t, "equal\n", out)

	out, err = run(t, "compare", a, c)
	require.True(t, errors.Is(err, ErrTreesDiffer))
	require.Equal(t, "value differs at node 5\n", out)

	// d moves node 3 up a level.
	out, err = run(t, "compare", a, d)
	require.True(t, errors.Is(err, ErrTreesDiffer))
	require.Equal(t, "structure differs at node 3\n", out)
}

func TestVerify(t *testing.T) {
	path := writeTree(t, t.TempDir(), "kuhn", nil)

	out, err := run(t, "verify", path)
	require.NoError(t, err)
	require.Equal(t, "ok: 7 nodes, 4 leaves, record size 3\n", out)
}

func TestRecordSizeFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, "kuhn", nil)

	cfg := filepath.Join(dir, "gametree.hcl")
	require.NoError(t, os.WriteFile(cfg, []byte("tree {\n  record_size = 4\n}\n"), 0o644))

	// 4 byte records misread the body and the user data length after it.
	_, err := run(t, "-c", cfg, "verify", path)
	require.Error(t, err)

	_, err = run(t, "-c", cfg, "verify", "-r", "3", path)
	require.NoError(t, err)
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "trees.db")
	path := writeTree(t, dir, "kuhn", nil)

	_, err := run(t, "--db", db, "store", "put", "kuhn", path)
	require.NoError(t, err)
	_, err = run(t, "--db", db, "store", "put", "leduc", path)
	require.NoError(t, err)

	out, err := run(t, "--db", db, "store", "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "kuhn "))
	require.True(t, strings.HasPrefix(lines[1], "leduc "))
	require.Contains(t, lines[0], "7 nodes")

	copyPath := filepath.Join(dir, "copy.uft")
	_, err = run(t, "--db", db, "store", "get", "kuhn", copyPath)
	require.NoError(t, err)
	out, err = run(t, "compare", path, copyPath)
	require.NoError(t, err)
	require.Equal(t, "equal\n", out)

	_, err = run(t, "--db", db, "store", "rm", "kuhn")
	require.NoError(t, err)
	out, err = run(t, "--db", db, "store", "ls")
	require.NoError(t, err)
	require.NotContains(t, out, "kuhn")
}

func TestBadLogLevel(t *testing.T) {
	path := writeTree(t, t.TempDir(), "kuhn", nil)
	_, err := run(t, "-l", "loud", "info", path)
	require.Error(t, err)
}
