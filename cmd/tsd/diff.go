package main

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/libdiff"
	"github.com/signadot/tsd/parse"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Loop != "" {
		return diffLoop(cfg, cc)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff (without -loop) requires 2 args, got %v", cli.ErrUsage, args)
	}
	texts := make([]string, 2)
	for i, file := range args {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		texts[i], err = diffText(cfg, doc)
		if err != nil {
			return err
		}
	}
	differs, err := diffInputs(cfg, cc, texts[0], texts[1], false)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffText encodes doc for diffing, pretty and without colors.
func diffText(cfg *DiffConfig, doc *ir.Element) (string, error) {
	var b strings.Builder
	if err := encode.Encode(doc, &b, encode.EncodeRemoved(!cfg.Live)); err != nil {
		return "", fmt.Errorf("error encoding: %w", err)
	}
	return b.String(), nil
}

func diffLoop(cfg *DiffConfig, cc *cli.Context) error {
	last := ""
	ticker := time.NewTicker(cfg.LoopEvery)
	defer ticker.Stop()
	diffCount := 0
	for i := 0; i != cfg.LoopLim; i++ {
		cmd := exec.Command("sh", "-c", cfg.Loop)
		r, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("unable to create pipe for command %q: %w", cfg.Loop, err)
		}
		cmd.WaitDelay = cfg.LoopEvery
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("unable to start %q: %w", cfg.Loop, err)
		}
		d, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("command %q exited with an error: %w", cfg.Loop, err)
		}
		doc, err := parse.Parse(d)
		if err != nil {
			return fmt.Errorf("error decoding command output: %w", err)
		}
		next, err := diffText(cfg, doc)
		if err != nil {
			return err
		}
		differs, err := diffInputs(cfg, cc, last, next, diffCount > 0)
		if err != nil {
			return err
		}
		if differs {
			diffCount++
		}
		last = next
		<-ticker.C
	}
	return nil
}

func diffInputs(cfg *DiffConfig, cc *cli.Context, a, b string, sep bool) (bool, error) {
	lines := libdiff.Lines(a, b)
	if !libdiff.Changed(lines) {
		return false, nil
	}
	w := cc.Out
	if sep {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return false, fmt.Errorf("unable to write separator: %w", err)
		}
	}
	if cfg.Loop != "" {
		when := time.Now().Format(time.RFC3339Nano)
		if _, err := w.Write([]byte("# difference found at " + when + "\n")); err != nil {
			return false, err
		}
	}
	out := libdiff.Format(lines, cfg.Context)
	if cfg.color(w) {
		out = colorDiff(out)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return false, err
	}
	return true, nil
}

func colorDiff(s string) string {
	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()
	var b strings.Builder
	for _, ln := range strings.SplitAfter(s, "\n") {
		body := strings.TrimSuffix(ln, "\n")
		switch {
		case strings.HasPrefix(body, "+"):
			b.WriteString(add(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(del(body))
		default:
			b.WriteString(body)
		}
		if len(body) < len(ln) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
