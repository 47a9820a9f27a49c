// Command rpn is an interactive reverse-Polish calculator. With arguments it
// evaluates them as one expression and exits; otherwise it reads lines from
// the terminal (with history) or from a pipe.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	rpn "github.com/rtsoliday/SDDS-sub003"
)

func main() {
	format := flag.String("format", env.Str("RPN_FORMAT", "%.15g"),
		"printf format for numeric output")
	defns := flag.String("defns", env.Str("RPN_DEFNS", ""),
		"definitions file loaded at startup")
	expr := flag.String("e", "", "evaluate one expression and exit")
	flag.Parse()

	it := rpn.New(
		rpn.WithFormat(*format),
		rpn.WithDiagnostics(os.Stdout),
	)
	defer it.Close()

	if *defns != "" {
		if err := it.LoadFile(*defns); err != nil {
			fmt.Fprintf(os.Stderr, "rpn: %v\n", err)
			os.Exit(1)
		}
	}

	if *expr != "" || flag.NArg() > 0 {
		text := strings.TrimSpace(*expr + " " + strings.Join(flag.Args(), " "))
		res, err := it.Evaluate(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rpn: %v\n", err)
			os.Exit(1)
		}
		printResult(*format, res)
		return
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		runInteractive(it, *format)
		return
	}
	runPiped(it, *format)
}

func printResult(format string, res rpn.Result) {
	switch res.Kind {
	case rpn.KindNumber:
		fmt.Printf(format+"\n", res.Number)
	case rpn.KindLogical:
		fmt.Printf("%v\n", res.Logical)
	}
}

func runPiped(it *rpn.Interpreter, format string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		res, err := it.Evaluate(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rpn: %v\n", err)
			continue
		}
		printResult(format, res)
	}
}

func runInteractive(it *rpn.Interpreter, format string) {
	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	hist := historyPath()
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			rl.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if hist == "" {
			return
		}
		if f, err := os.Create(hist); err == nil {
			rl.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := rl.Prompt("rpn> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			return
		}
		rl.AppendHistory(input)

		res, err := it.Evaluate(input)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		printResult(format, res)
	}
}

func historyPath() string {
	if p := env.Str("RPN_HISTORY", ""); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rpn_history")
}
