package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tsd/config"
	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/parse"
	"github.com/signadot/tsd/storage"

	"github.com/ergochat/readline"
	"github.com/scott-cotton/cli"
)

var errQuit = errors.New("quit")

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("show"),
	readline.PcItem("get"),
	readline.PcItem("list"),
	readline.PcItem("set"),
	readline.PcItem("add"),
	readline.PcItem("ref"),
	readline.PcItem("rm"),
	readline.PcItem("restore"),
	readline.PcItem("sync"),
	readline.PcItem("status"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

const replHelp = `commands:
  show                    print the document
  get <path>              print the element at path
  list <path>             print the keys of the collection at path
  set <path> <value>      set the value at path, e.g. set /a/b "x"
  add <path> <key> <val>  add key to the collection at path
  ref <path> <target>     make path a reference to target
  rm <path>               remove the element at path
  restore <path>          restore a removed element
  sync [override]         sync now
  status                  show the sync status
  exit, quit`

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func repl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Repl.Parse(cc, args)
	if err != nil {
		return err
	}
	log := cfg.log()
	s, closer, err := openStorage(cfg.ConfigFile, log, func(_ *config.Config, spec *storage.Spec) {
		spec.AutoSync = true
		spec.OnError = func(err error) {
			log.Warn("background sync", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer closer()
	if _, err := s.Sync(context.Background(), false); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tsd> ",
		HistoryFile:     cfg.History,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	rl.CaptureExitSignal()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		err = replLine(cfg, cc.Out, s, strings.TrimSpace(line))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(cc.Out, "error: %v\n", err)
		}
	}
}

func replLine(cfg *ReplConfig, w io.Writer, s *storage.Storage, line string) error {
	if line == "" {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "help":
		fmt.Fprintln(w, replHelp)
		return nil
	case "exit", "quit":
		return errQuit
	case "status":
		local := ""
		if s.HasLocalOnlyChanges() {
			local = " (local changes)"
		}
		fmt.Fprintf(w, "%s%s\n", s.Status(), local)
		return nil
	case "sync":
		_, err := s.Sync(context.Background(), rest == "override")
		return err
	case "show":
		return s.View(func(doc *ir.Element) error {
			return encode.Encode(doc, w, cfg.encOpts(w)...)
		})
	case "get":
		return s.View(func(doc *ir.Element) error {
			e, err := at(doc, rest)
			if err != nil {
				return err
			}
			return encode.Encode(e, w, cfg.encOpts(w)...)
		})
	case "list":
		return s.View(func(doc *ir.Element) error {
			e, err := at(doc, rest)
			if err != nil {
				return err
			}
			if e, err = e.Deref(); err != nil {
				return err
			}
			keys, err := e.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
			return nil
		})
	case "set":
		path, text, _ := strings.Cut(rest, " ")
		v, err := parseValue(text)
		if err != nil {
			return err
		}
		return s.Update(func(doc *ir.Element) error {
			e, err := at(doc, path)
			if err != nil {
				return err
			}
			return e.Set(v)
		})
	case "add":
		f := strings.SplitN(rest, " ", 3)
		if len(f) != 3 {
			return fmt.Errorf("usage: add <path> <key> <value>")
		}
		v, err := parseValue(f[2])
		if err != nil {
			return err
		}
		return s.Update(func(doc *ir.Element) error {
			e, err := at(doc, f[0])
			if err != nil {
				return err
			}
			return e.Add(ir.New(f[1], v))
		})
	case "ref":
		path, target, _ := strings.Cut(rest, " ")
		return s.Update(func(doc *ir.Element) error {
			e, err := at(doc, path)
			if err != nil {
				return err
			}
			t, err := at(doc, strings.TrimSpace(target))
			if err != nil {
				return err
			}
			return e.SetRef(t)
		})
	case "rm", "restore":
		return s.Update(func(doc *ir.Element) error {
			e, err := lookupAny(doc, rest)
			if err != nil {
				return err
			}
			if cmd == "rm" {
				e.Remove()
			} else {
				e.Restore()
			}
			return nil
		})
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func at(doc *ir.Element, path string) (*ir.Element, error) {
	e, err := doc.Query(path)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("nothing at %s", path)
	}
	return e, nil
}

// lookupAny finds the element at the absolute path, removed or not.
func lookupAny(doc *ir.Element, path string) (*ir.Element, error) {
	segs := ir.SplitPath(path)
	if !ir.ValidPath(path) || segs[0] != "" {
		return nil, fmt.Errorf("%w %q: want an absolute path", ir.ErrInvalidPath, path)
	}
	parent := doc.Root()
	if len(segs) > 2 {
		var err error
		if parent, err = at(doc, strings.Join(segs[:len(segs)-1], "/")); err != nil {
			return nil, err
		}
	}
	key := ir.UnescapeKey(segs[len(segs)-1])
	for _, kid := range parent.All() {
		if kid.Key() == key {
			return kid, nil
		}
	}
	return nil, fmt.Errorf("nothing at %s", path)
}

// parseValue reads a value in document syntax, for example "x", 1.5,
// null or {a:1}.
func parseValue(text string) (ir.Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ir.Value{}, fmt.Errorf("missing value")
	}
	e, err := parse.ParseString("v:" + text)
	if err != nil {
		return ir.Value{}, err
	}
	return e.Value(), nil
}
