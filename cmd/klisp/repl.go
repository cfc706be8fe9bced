package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/klisp-lang/klisp/internal/value"
	"github.com/klisp-lang/klisp/pkg/klisp"
)

func printBanner() {
	fmt.Println("klisp REPL (Ctrl+D to exit)")
}

func runREPL(rt *klisp.Runtime) {
	defer rt.Close()
	printBanner()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runBasicREPL(rt)
		return
	}
	runRawREPL(rt)
}

// runBasicREPL handles non-TTY input (piped input, or a terminal that
// doesn't support raw mode).
func runBasicREPL(rt *klisp.Runtime) {
	in := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(">>> ")
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			evalAndPrint(rt, line)
		}
		if err != nil {
			fmt.Println()
			return
		}
	}
}

// runRawREPL puts the terminal in raw mode for a minimal line editor:
// printable ASCII and UTF-8 input, backspace, Ctrl+C to cancel the
// current line, Ctrl+D to exit on an empty line.
func runRawREPL(rt *klisp.Runtime) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set raw mode: %v\n", err)
		runBasicREPL(rt)
		return
	}
	defer term.Restore(fd, oldState)

	for {
		fmt.Print(">>> ")
		line, eof := readLineRaw()
		if eof {
			fmt.Print("\r\n")
			return
		}
		if strings.TrimSpace(line) != "" {
			evalAndPrint(rt, line)
		}
	}
}

func evalAndPrint(rt *klisp.Runtime, input string) {
	result, err := rt.EvalString(input)
	if err != nil {
		fmt.Printf("%v\r\n", err)
		return
	}
	if result != nil {
		fmt.Printf("%s\r\n", value.Show(result))
	}
}

// readLineRaw reads one line from stdin while the terminal is in raw
// mode, returning (line, eof).
func readLineRaw() (string, bool) {
	var line []rune
	buf := make([]byte, 1)

	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return string(line), true
		}

		switch b := buf[0]; b {
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				return "", true
			}
		case 0x03: // Ctrl+C
			fmt.Print("^C\r\n")
			return "", false
		case 0x0d, 0x0a: // Enter
			fmt.Print("\r\n")
			return string(line), false
		case 0x7f, 0x08: // Backspace
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		default:
			switch {
			case b >= 0x20 && b < 0x7f:
				line = append(line, rune(b))
				fmt.Print(string(rune(b)))
			case b >= 0x80:
				r, _ := readUTF8Rune(b)
				line = append(line, r)
				fmt.Print(string(r))
			}
		}
	}
}

func readUTF8Rune(first byte) (rune, error) {
	buf := []byte{first}
	numExtra := 0
	switch {
	case first&0xE0 == 0xC0:
		numExtra = 1
	case first&0xF0 == 0xE0:
		numExtra = 2
	case first&0xF8 == 0xF0:
		numExtra = 3
	}
	next := make([]byte, 1)
	for i := 0; i < numExtra; i++ {
		if _, err := os.Stdin.Read(next); err != nil {
			return 0, err
		}
		buf = append(buf, next[0])
	}
	r := []rune(string(buf))
	if len(r) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return r[0], nil
}
