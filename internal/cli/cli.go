// Package cli handles command line flag parsing. The surface is small
// enough (one input file, one output flag, one mode switch) that
// flag.NewFlagSet covers it without a third-party flag library.
package cli

import (
	"flag"
	"os"
	"strings"
)

// Options holds the parsed command line invocation.
type Options struct {
	Input   string
	Output  string
	Disasm  bool
	Disasm2 bool // -d short form, merged into Disasm by ParseFlags
	Debug   bool
	Quiet   bool
}

// UsageError is returned when the arguments cannot be parsed into a
// valid invocation; callers print usage and exit non-zero.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the flag set's usage summary to stderr.
func (e *UsageError) ShowUsage() {
	os.Stderr.WriteString("usage: chip8xc <input.ch8> [-o output.bin]\n")
	os.Stderr.WriteString("       chip8xc --disasm <input.ch8>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stderr)
		e.flags.PrintDefaults()
	}
}

// ParseFlags parses os.Args[1:] into Options. The output path, when
// not given explicitly with -o, is derived by replacing a trailing
// ".ch8" suffix on the input path with ".bin".
func ParseFlags() (Options, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(new(discard))

	var opts Options
	flags.StringVar(&opts.Output, "o", "", "name of the output .bin file")
	flags.BoolVar(&opts.Disasm, "disasm", false, "disassemble the input ROM instead of compiling it")
	flags.BoolVar(&opts.Disasm2, "d", false, "shorthand for -disasm")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	args := flags.Args()
	if len(args) == 0 {
		return opts, &UsageError{flags: flags, msg: "missing input ROM file"}
	}
	opts.Input = args[0]

	// flag.Parse stops at the first non-flag token, so an invocation
	// like "chip8xc game.ch8 -o out.bin" leaves everything after the
	// input file unparsed in Args. Parse the remainder too so flags
	// work on either side of the input file.
	if len(args) > 1 {
		if err := flags.Parse(args[1:]); err != nil {
			return opts, &UsageError{flags: flags, msg: err.Error()}
		}
		if rest := flags.Args(); len(rest) > 0 {
			return opts, &UsageError{flags: flags, msg: "unexpected argument: " + rest[0]}
		}
	}

	opts.Disasm = opts.Disasm || opts.Disasm2
	if opts.Output == "" {
		opts.Output = deriveOutputPath(opts.Input)
	}
	return opts, nil
}

// deriveOutputPath swaps a trailing .ch8 extension for .bin. A file
// with no .ch8 suffix gets .bin appended instead of silently compiling
// to the same name.
func deriveOutputPath(input string) string {
	if strings.HasSuffix(input, ".ch8") {
		return strings.TrimSuffix(input, ".ch8") + ".bin"
	}
	return input + ".bin"
}

// discard is a minimal io.Writer used to silence flag's own error
// printing so the CLI can format its own usage message instead.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
