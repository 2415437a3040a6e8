package main

import (
	"fmt"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	if !ir.ValidPath(path) {
		return fmt.Errorf("%w: invalid path %q", cli.ErrUsage, path)
	}
	for _, file := range docArgs(args[1:]) {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		res, err := resolve(doc, path)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, path, err)
		}
		if res == nil {
			// nothing there, nothing to say
			continue
		}
		if err := encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}

// resolve queries path from the root of doc and follows a resulting
// reference.
func resolve(doc *ir.Element, path string) (*ir.Element, error) {
	res, err := doc.Query(path)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Deref()
}
