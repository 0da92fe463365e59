// Command bptree is a minimal CLI demo over the pager engine: open a
// store file and put/get/del single uint16-keyed, string-valued records.
// Its subcommand-dispatch-by-os.Args[1] shape follows tinySQL's
// cmd/tinysql/main.go, trimmed to this engine's four operations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"bptree/pager"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "put":
		err = runPut(os.Args[2:])
	case "get":
		err = runGet(os.Args[2:])
	case "del":
		err = runDel(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bptree: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bptree <put|get|del> -file PATH -key N [-value TEXT]")
}

func openTree(file string) (*pager.Tree[uint16, string], error) {
	return pager.Open(pager.Options{Path: file}, pager.Uint16Codec{}, pager.StringCodec{})
}

func runPut(args []string) error {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	file := fs.String("file", "", "backing file path")
	key := fs.Uint("key", 0, "record key")
	value := fs.String("value", "", "record value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := openTree(*file)
	if err != nil {
		return err
	}
	defer t.Close()
	if err := t.Insert(uint16(*key), *value); err != nil {
		return err
	}
	fmt.Printf("ok\n")
	return nil
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	file := fs.String("file", "", "backing file path")
	key := fs.Uint("key", 0, "record key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := openTree(*file)
	if err != nil {
		return err
	}
	defer t.Close()
	v, err := t.Search(uint16(*key))
	if err != nil {
		if errors.Is(err, pager.ErrNotFound) || errors.Is(err, pager.ErrNoRoot) {
			fmt.Println("not found")
			return nil
		}
		return err
	}
	fmt.Println(v)
	return nil
}

func runDel(args []string) error {
	fs := flag.NewFlagSet("del", flag.ExitOnError)
	file := fs.String("file", "", "backing file path")
	key := fs.Uint("key", 0, "record key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := openTree(*file)
	if err != nil {
		return err
	}
	defer t.Close()
	if err := t.Delete(uint16(*key)); err != nil {
		return err
	}
	fmt.Printf("ok\n")
	return nil
}
