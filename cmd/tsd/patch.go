package main

import (
	"bytes"
	"fmt"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/patch"

	"github.com/natefinch/atomic"
	"github.com/scott-cotton/cli"
)

func patchDoc(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a JSON patch and a file to which to apply it", cli.ErrUsage)
	}
	p, err := readArg(cc, args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	file := args[1]
	if cfg.Write && file == "-" {
		return fmt.Errorf("%w: -w needs a file", cli.ErrUsage)
	}
	doc, err := getDocFile(cc, file)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	apply := patch.Apply
	if cfg.Merge {
		apply = patch.ApplyMerge
	}
	changed, err := apply(doc, p)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", file, err)
	}
	if !cfg.Write {
		if err := encode.Encode(doc, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
		return nil
	}
	if !changed {
		return nil
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return atomic.WriteFile(file, buf)
}
