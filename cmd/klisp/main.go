// Command klisp is the klisp interpreter CLI: a repl subcommand and a
// run subcommand for executing a file or an inline expression.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/klisp-lang/klisp/internal/value"
	"github.com/klisp-lang/klisp/pkg/klisp"
)

const version = "klisp 0.1.0"

func main() {
	if len(os.Args) < 2 {
		runREPL(mustRuntime("klisp.db"))
		return
	}

	switch os.Args[1] {
	case "--version":
		fmt.Println(version)
	case "repl":
		fs := flag.NewFlagSet("repl", flag.ExitOnError)
		dbPath := fs.String("db", "klisp.db", "SQLite database path for persisted definitions")
		fs.Parse(os.Args[2:])
		runREPL(mustRuntime(*dbPath))
	case "run":
		runCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want --version, repl, or run)\n", os.Args[1])
		os.Exit(1)
	}
}

func runCommand(argv []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dbPath := fs.String("db", "klisp.db", "SQLite database path for persisted definitions")
	evalExpr := fs.String("e", "", "Evaluate this expression instead of a file")
	fs.StringVar(evalExpr, "eval", "", "Evaluate this expression instead of a file")
	fs.Parse(argv)

	// flag stops at the first positional argument; parse again after each
	// one so flags may follow FILE as well as precede it.
	var args []string
	for fs.NArg() > 0 {
		args = append(args, fs.Arg(0))
		fs.Parse(fs.Args()[1:])
	}

	rt := mustRuntime(*dbPath)
	defer rt.Close()

	var (
		result value.Value
		err    error
	)

	switch {
	case *evalExpr != "":
		result, err = rt.EvalString(*evalExpr)
	case len(args) == 1:
		result, err = rt.EvalFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "usage: klisp run FILE | klisp run -e EXPR")
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if result != nil {
		fmt.Println(result.Print())
	}
}

func mustRuntime(dbPath string) *klisp.Runtime {
	rt, err := klisp.New(klisp.WithSQLiteStore(dbPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return rt
}
