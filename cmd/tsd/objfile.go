package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/parse"

	"github.com/scott-cotton/cli"
)

func readArg(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func getDocFile(cc *cli.Context, path string) (*ir.Element, error) {
	d, err := readArg(cc, path)
	if err != nil {
		return nil, err
	}
	return parse.Parse(d)
}

// docArgs returns the files named by args, or stdin when there are none.
func docArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
