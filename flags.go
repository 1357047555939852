package main

import (
	"flag"
	"fmt"
	"os"
)

// flags.go - Command-line flag parsing.
//
// Kept close to the teacher's flags.go: a flag.FlagSet built once in
// ParseFlags, normalizing --long forms accepted alongside the single
// -dash Go convention uses, with fs.Usage overridden to print a
// one-line synopsis. -I/-trimpath (multi-file include search path,
// build-path scrubbing) have no counterpart in this compiler, which
// only ever reads one source file and never records it in a way that
// would need scrubbing, so they are dropped along with IncludeDirs
// /Trimpath.

// CompilerOptions holds the compiler's command-line configuration.
type CompilerOptions struct {
	OutPath     string
	Verbose     bool
	TokenDump   bool
	PrintAsm    bool
	Run         bool
	ShowVersion bool
}

// ParseFlags parses os.Args[1:] and returns the options plus the
// remaining positional arguments (the source file).
func ParseFlags() (*CompilerOptions, []string, error) {
	opts := &CompilerOptions{}

	fs := flag.NewFlagSet("cc86", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&opts.OutPath, "o", "a.out", "write output to `file`")
	fs.BoolVar(&opts.Verbose, "v", false, "enable verbose phase logging")
	fs.BoolVar(&opts.TokenDump, "td", false, "print tokens and exit")
	fs.BoolVar(&opts.TokenDump, "token-dump", false, "print tokens and exit")
	fs.BoolVar(&opts.PrintAsm, "S", false, "emit assembly to -o path instead of linking")
	fs.BoolVar(&opts.Run, "run", false, "build and run the compiled binary")
	fs.BoolVar(&opts.ShowVersion, "version", false, "print compiler version and exit")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cc86 [flags] <file.c>")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}

	raw := os.Args[1:]
	norm := make([]string, 0, len(raw))
	for _, a := range raw {
		if a == "--token-dump" {
			norm = append(norm, "-token-dump")
		} else {
			norm = append(norm, a)
		}
	}

	if err := fs.Parse(norm); err != nil {
		return nil, nil, err
	}

	return opts, fs.Args(), nil
}
