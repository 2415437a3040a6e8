package main

import (
	"fmt"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/eval"

	"github.com/scott-cotton/cli"
)

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: list requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	var filter *eval.Filter
	if cfg.Where != "" {
		filter, err = eval.Compile(cfg.Where)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	for _, file := range docArgs(args[1:]) {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		coll, err := resolve(doc, path)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
		if coll == nil {
			continue
		}
		kids, err := eval.Select(coll, filter)
		if err != nil {
			return fmt.Errorf("error listing %s: %w", file, err)
		}
		for _, kid := range kids {
			if cfg.Keys {
				fmt.Fprintln(cc.Out, kid.Key())
				continue
			}
			if err := encode.Encode(kid, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
				return fmt.Errorf("error encoding result: %w", err)
			}
		}
	}
	return nil
}
