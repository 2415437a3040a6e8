package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/signadot/tsd/encode"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output in wire format'"`
	Live    bool `cli:"name=live desc='omit removed elements from output'"`
	Verbose bool `cli:"name=v desc='log sync steps'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeWire(cfg.WireOut),
		encode.EncodeRemoved(!cfg.Live),
	}
	if cfg.color(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// color reports whether output to w is colored: when asked with -color,
// otherwise when w is a terminal.
func (cfg *MainConfig) color(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name == "color" && opt.Value != nil {
				return false
			}
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) log() *slog.Logger {
	return newLog(os.Stderr, cfg.Verbose)
}

type FmtConfig struct {
	*MainConfig
	Fmt *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type ListConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='expression selecting the listed elements'"`
	Keys  bool   `cli:"name=k desc='list keys only'"`

	List *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Merge *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Context   bool   `cli:"name=c desc='show unchanged lines'"`
	Loop      string `cli:"name=loop desc='command to produce documents to diff in a loop'"`
	LoopEvery time.Duration
	LoopLim   int `cli:"name=loopLim desc='max number of times to loop'"`

	Diff *cli.Command
}

func (cfg *DiffConfig) mkLoopEvery() func(cc *cli.Context, a string) (any, error) {
	return durationOpt(&cfg.LoopEvery)
}

func durationOpt(dst *time.Duration) func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		*dst = d
		return d, nil
	}
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='patch is a JSON merge patch'"`
	Write bool `cli:"name=w desc='write the result back to the file'"`

	Patch *cli.Command
}

type InitConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (yaml)' default=tsd.yaml"`
	Init *cli.Command
}

type SyncConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (yaml)' default=tsd.yaml"`
	Override bool `cli:"name=override desc='replace the local document with the remote one'"`

	Sync *cli.Command
}

type WatchConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (yaml)' default=tsd.yaml"`
	Every   time.Duration
	Metrics string `cli:"name=metrics desc='address serving prometheus metrics'"`
	Gops    bool   `cli:"name=gops desc='start a gops agent'"`

	Watch *cli.Command
}

type ReplConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (yaml)' default=tsd.yaml"`
	History string `cli:"name=history desc='history file'"`

	Repl *cli.Command
}
