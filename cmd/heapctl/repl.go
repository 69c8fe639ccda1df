package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"

	"github.com/nat-run/natheap/heap"
)

// repl drives an interactive session against h: `alloc <var> <tag>`,
// `drop <var>`, `collect`, `stats`, `vars`, `quit` (or `exit`). It has
// no per-variable dump command; hex dumps of cells are printed only by
// `heapctl snapshot`.
// Command lines are tokenized with shlex (so `alloc greeting string`
// and quoted variants both work) the same way the teacher's own CLI
// argument handling expects shell-style quoting.
type repl struct {
	h       *heap.Heap
	globals *replGlobals
	out     io.Writer
}

func newREPL(h *heap.Heap, globals *replGlobals) *repl {
	return &repl{h: h, globals: globals, out: colorable.NewColorableStdout()}
}

// run reads lines from a raw terminal via go-tty when one is attached
// (so Ctrl-C is trapped cleanly mid-command instead of echoing twice),
// falling back to a plain buffered stdin reader otherwise — e.g. when
// input is piped from a script.
func (r *repl) run() error {
	t, err := tty.Open()
	if err != nil {
		return r.runPlain()
	}
	defer t.Close()

	reader := bufio.NewReader(t.Input())
	for {
		fmt.Fprint(r.out, "heapctl> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r.dispatch(strings.TrimSpace(line)) {
			return nil
		}
	}
}

func (r *repl) runPlain() error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if r.dispatch(strings.TrimSpace(scanner.Text())) {
			return nil
		}
	}
	return scanner.Err()
}

func (r *repl) dispatch(line string) (quit bool) {
	if line == "" {
		return false
	}
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		fmt.Fprintf(r.out, "heapctl: bad command: %v\n", err)
		return false
	}

	switch args[0] {
	case "quit", "exit":
		return true

	case "stats":
		fmt.Fprintln(r.out, r.h.Stats().String())

	case "vars":
		for _, name := range r.globals.Names() {
			fmt.Fprintln(r.out, name)
		}

	case "collect":
		r.h.Collect()
		fmt.Fprintln(r.out, "ok")

	case "alloc":
		if len(args) < 3 {
			fmt.Fprintln(r.out, "usage: alloc <var> <tag>")
			return false
		}
		r.doAlloc(args[1], args[2])

	case "drop":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: drop <var>")
			return false
		}
		r.globals.Drop(args[1])

	default:
		fmt.Fprintf(r.out, "heapctl: unknown command %q\n", args[0])
	}
	return false
}

func (r *repl) doAlloc(name, tagName string) {
	tag, ok := tagByName[tagName]
	if !ok {
		fmt.Fprintf(r.out, "heapctl: unknown tag %q\n", tagName)
		return
	}
	cell := r.h.Alloc(nil, tag)
	r.globals.Set(name, cell)
	fmt.Fprintf(r.out, "allocated %s (%s)\n", name, tag)
}

var tagByName = map[string]heap.VariantTag{
	"nil": heap.TagNil, "true": heap.TagTrue, "false": heap.TagFalse,
	"integer": heap.TagInteger, "string": heap.TagString, "symbol": heap.TagSymbol,
	"array": heap.TagArray, "hash": heap.TagHash, "range": heap.TagRange,
	"regexp": heap.TagRegexp, "proc": heap.TagProc, "thread": heap.TagThread,
	"class": heap.TagClass, "module": heap.TagModule, "exception": heap.TagException,
}
