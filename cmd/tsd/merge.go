package main

import (
	"fmt"

	"github.com/signadot/tsd/debug"
	"github.com/signadot/tsd/encode"

	"github.com/scott-cotton/cli"
)

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: merge requires at least 2 files", cli.ErrUsage)
	}
	res, err := getDocFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	for _, file := range args[1:] {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if res.Key() != doc.Key() {
			return fmt.Errorf("cannot merge %s: root key %q, want %q", file, doc.Key(), res.Key())
		}
		changed := res.Merge(doc)
		if debug.Merge() {
			debug.Logf("merge %s changed=%v\n", file, changed)
		}
	}
	if err := encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
