/*
Langauto loads an automaton or grammar definition and checks strings
against it.

It reads a TOML definition file describing a DFA, NFA, FST, CFG, or regex
pattern, then either runs a single check given on the command line or
drops into an interactive readline session for repeated checks.

Usage:

	langauto [flags]

The flags are:

	-f, --file FILE
		The TOML definition file to load. Defaults to "definition.toml" in
		the current working directory.

	-c, --check INPUT
		Run a single check against INPUT and print the verdict, then exit
		instead of starting the interactive session.

Once a session has started, lines typed at the prompt are checked against
the loaded definition: "accepts"/"process" for automata, "derive" for
grammars. Type "QUIT" to exit.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/langauto/automaton"
	"github.com/dekarrin/langauto/cmd/langauto/loaddef"
	"github.com/dekarrin/langauto/grammar"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitCheckFailed
	ExitInitError
)

var (
	flagFile  = pflag.StringP("file", "f", "definition.toml", "The TOML definition file describing the automaton or grammar to load")
	flagCheck = pflag.StringP("check", "c", "", "Run a single check against the given input and exit instead of starting the interactive session")
)

func main() {
	pflag.Parse()

	def, err := loaddef.Load(*flagFile)
	if err != nil {
		log.Fatalf("load %s: %v", *flagFile, err)
	}

	if pflag.Lookup("check").Changed {
		ok, err := runCheck(def, *flagCheck)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitInitError)
		}
		if !ok {
			os.Exit(ExitCheckFailed)
		}
		return
	}

	if err := runREPL(def); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitInitError)
	}
}

// runCheck runs a single check of input against def and prints the verdict,
// reporting whether the input was accepted/valid.
func runCheck(def loaddef.Definition, input string) (bool, error) {
	switch def.Kind {
	case loaddef.KindDFA:
		ok, err := def.DFA.Accepts(input)
		if err != nil {
			return false, err
		}
		fmt.Printf("accepts(%q) = %t\n", input, ok)
		return ok, nil
	case loaddef.KindNFA:
		ok := def.NFA.Accepts(input)
		fmt.Printf("accepts(%q) = %t\n", input, ok)
		return ok, nil
	case loaddef.KindFST:
		out, err := def.FST.Process(input)
		if err != nil {
			return false, err
		}
		fmt.Printf("process(%q) = %q\n", input, out)
		return true, nil
	case loaddef.KindCFG:
		return false, fmt.Errorf("single-check mode does not support CFG derivations; use the interactive session")
	case loaddef.KindRegex:
		n, err := automaton.Fit(def.Regex, nil)
		if err != nil {
			return false, err
		}
		ok := n.Accepts(input)
		fmt.Printf("accepts(%q) = %t\n", input, ok)
		return ok, nil
	default:
		return false, fmt.Errorf("unsupported definition kind %q", def.Kind)
	}
}

// runREPL starts an interactive readline session for repeated checks
// against def, mirroring cmd/tqi's readline-backed session loop.
func runREPL(def loaddef.Definition) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "langauto> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	fmt.Printf("loaded %s definition from %s. Type QUIT to exit.\n", def.Kind, *flagFile)

	var fitCache *automaton.NFA
	if def.Kind == loaddef.KindRegex {
		fitCache, err = automaton.Fit(def.Regex, nil)
		if err != nil {
			return err
		}
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		fields := strings.SplitN(line, " ", 2)
		cmd := strings.ToLower(fields[0])
		var arg string
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch cmd {
		case "accepts":
			switch def.Kind {
			case loaddef.KindDFA:
				ok, err := def.DFA.Accepts(arg)
				printResult(ok, err)
			case loaddef.KindNFA:
				fmt.Printf("%t\n", def.NFA.Accepts(arg))
			case loaddef.KindRegex:
				fmt.Printf("%t\n", fitCache.Accepts(arg))
			default:
				fmt.Println("accepts is only valid for dfa, nfa, and regex definitions")
			}
		case "process":
			if def.Kind != loaddef.KindFST {
				fmt.Println("process is only valid for fst definitions")
				continue
			}
			out, err := def.FST.Process(arg)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				continue
			}
			fmt.Printf("%q\n", out)
		case "derive":
			if def.Kind != loaddef.KindCFG {
				fmt.Println("derive is only valid for cfg definitions")
				continue
			}
			runDerive(def.CFG, arg)
		case "sample":
			if def.Kind != loaddef.KindCFG {
				fmt.Println("sample is only valid for cfg definitions")
				continue
			}
			s, ok := def.CFG.GenerateSample(50)
			if !ok {
				fmt.Println("no sample found within the depth bound")
				continue
			}
			fmt.Printf("%q\n", s)
		case "table":
			fmt.Println(tableFor(def))
		default:
			fmt.Printf("unrecognized command %q; try accepts, process, derive, sample, table, or QUIT\n", cmd)
		}
	}
}

func printResult(ok bool, err error) {
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}
	fmt.Printf("%t\n", ok)
}

// runDerive checks whether arg's "|"-separated steps, each a
// whitespace-separated list of symbols, form a valid derivation in g.
func runDerive(g *grammar.CFG, arg string) {
	rawSteps := strings.Split(arg, "|")
	steps := make([][]string, len(rawSteps))
	for i, s := range rawSteps {
		steps[i] = strings.Fields(s)
	}
	valid, err := g.IsValidDerivation(steps)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}
	fmt.Printf("%t\n", valid)
}

func tableFor(def loaddef.Definition) string {
	switch def.Kind {
	case loaddef.KindDFA:
		return def.DFA.Table()
	case loaddef.KindNFA:
		return def.NFA.Table()
	case loaddef.KindFST:
		return def.FST.Table()
	case loaddef.KindCFG:
		return def.CFG.Table()
	default:
		return ""
	}
}
