// Command formula is an interactive shell over the formula engine.
//
// Usage:
//
//	formula [-width N] [-locale en|fr] [-debug] [-e formula]
//
// Without -e it starts a REPL. A plain line is pretty-printed; a line
// starting with a command applies that command to the rest of the line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	formula "github.com/odoo/o-spreadsheet-formula"
	"github.com/odoo/o-spreadsheet-formula/pkg/compiler"
	"github.com/odoo/o-spreadsheet-formula/pkg/parser"
	"github.com/odoo/o-spreadsheet-formula/pkg/printer"
	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

const (
	appName     = "formula"
	historyFile = ".formula_history"
	promptMain  = "fx> "
)

var helpText = `
REPL commands:
  :tokens F    Show the raw tokens of F
  :ranges F    Show the tokens of F with ranges fused
  :ast F       Show the syntax tree of F
  :pretty F    Pretty-print F (the default for plain lines)
  :compile F   Show the structural key and routine of F
  :deps F      List the references F depends on
  :width N     Set the pretty-printing width
  :cache       Show the number of cached routines
  :forget F    Drop the cached routine shared by formulas shaped like F
  :clear       Drop every cached routine
  :help        Show this help
  :quit        Exit the REPL
`

var locales = map[string]types.Locale{
	"en": types.DefaultLocale,
	"fr": types.NewLocale(",", ";"),
	"de": types.NewLocale(",", ";"),
}

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// session holds the REPL state.
type session struct {
	out      io.Writer
	width    int
	locale   types.Locale
	compiler *compiler.Compiler
	printer  *printer.Printer
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	width := fs.Int("width", printer.DefaultWidth, "pretty-printing width")
	localeName := fs.String("locale", "en", "formula locale (en, fr, de)")
	debug := fs.Bool("debug", false, "log compiler traces to stderr")
	expr := fs.String("e", "", "process a single line and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	locale, ok := locales[*localeName]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: unknown locale %q\n", appName, *localeName)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if *debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	s := &session{
		out:    os.Stdout,
		width:  *width,
		locale: locale,
		compiler: compiler.New(
			compiler.WithLocale(locale),
			compiler.WithLogger(logger),
			compiler.WithDebug(*debug),
		),
		printer: printer.New(),
	}

	if *expr != "" {
		if err := s.handle(*expr); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		return 0
	}
	return s.repl()
}

func (s *session) repl() int {
	fmt.Fprintf(s.out, "Formula engine %s\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", formula.Version())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" {
			return 0
		}
		ln.AppendHistory(line)

		if err := s.handle(line); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
	}
}

// handle runs one REPL line.
func (s *session) handle(line string) error {
	cmd, arg := "", line
	if strings.HasPrefix(line, ":") {
		cmd, arg, _ = strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
	}

	switch cmd {
	case "", ":pretty":
		node, err := parser.Parse(arg, parser.WithLocale(s.locale))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, blue(s.printer.Prettify(node, s.width)))
	case ":tokens":
		s.printTokens(parser.Tokenize(arg, s.locale))
	case ":ranges":
		s.printTokens(parser.RangeTokenize(arg, s.locale))
	case ":ast":
		node, err := parser.Parse(arg, parser.WithLocale(s.locale))
		if err != nil {
			return err
		}
		s.printTree(node, "")
	case ":compile":
		f := s.compiler.Compile(arg)
		if f.IsBadExpression {
			return f.Err()
		}
		fmt.Fprintf(s.out, "key:     %s\n", f.NormalizedFormula)
		fmt.Fprintf(s.out, "numbers: %v\nstrings: %q\nsymbols: %q\n", f.Numbers(), f.Strings(), f.Symbols())
		fmt.Fprintln(s.out, blue(f.Routine().String()))
	case ":deps":
		f := s.compiler.Compile(arg)
		if f.IsBadExpression {
			return f.Err()
		}
		for _, dep := range f.Dependencies {
			fmt.Fprintln(s.out, dep)
		}
	case ":width":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid width %q", arg)
		}
		s.width = n
	case ":cache":
		fmt.Fprintf(s.out, "%d cached routines\n", s.compiler.Cache().Len())
	case ":forget":
		if !s.compiler.Forget(arg) {
			return fmt.Errorf("no cached routine for %s", arg)
		}
	case ":clear":
		s.compiler.Cache().Clear()
	case ":help":
		fmt.Fprint(s.out, helpText)
	default:
		return fmt.Errorf("unknown command %s. Type :help for commands", cmd)
	}
	return nil
}

func (s *session) printTokens(tokens []parser.Token) {
	for _, t := range tokens {
		fmt.Fprintf(s.out, "%-20s %q\n", t.Type, t.Value)
	}
}

func (s *session) printTree(node *types.ASTNode, indent string) {
	label := string(node.Type)
	switch node.Type {
	case types.NodeNumber:
		label += " " + strconv.FormatFloat(node.NumValue, 'g', -1, 64)
	case types.NodeBoolean:
		label += " " + strconv.FormatBool(node.BoolValue)
	case types.NodeString:
		label += " " + strconv.Quote(node.Value)
	case types.NodeEmpty, types.NodeArray:
	default:
		label += " " + node.Value
	}
	if node.Debug {
		label += " (debug)"
	}
	fmt.Fprintf(s.out, "%s%s [%d..%d]\n", indent, label, node.TokenStartIndex, node.TokenEndIndex)

	indent += "  "
	switch node.Type {
	case types.NodeUnary:
		s.printTree(node.Operand, indent)
	case types.NodeBinary:
		s.printTree(node.LHS, indent)
		s.printTree(node.RHS, indent)
	case types.NodeFuncall:
		for _, arg := range node.Arguments {
			s.printTree(arg, indent)
		}
	case types.NodeArray:
		for i, row := range node.Rows {
			fmt.Fprintf(s.out, "%srow %d\n", indent, i)
			for _, cell := range row {
				s.printTree(cell, indent+"  ")
			}
		}
	}
}
