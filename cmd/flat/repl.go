package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/flat/automaton"
	"github.com/npillmayer/flat/flatten"
	"github.com/npillmayer/flat/grammar"
	"github.com/npillmayer/flat/grammar/gdl"
	"github.com/npillmayer/flat/lr0"
	"github.com/npillmayer/flat/scanner"
	"github.com/pterm/pterm"
	"golang.org/x/exp/slices"
)

// Intp is our interpreter object
type Intp struct {
	session *GrammarTable
	repl    *readline.Instance
}

var errUsage = errors.New("usage")

// command is a REPL command, receiving its arguments without the command name.
type command struct {
	usage string
	run   func(intp *Intp, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"load":      {"load <file>", (*Intp).cmdLoad},
		"def":       {"def <name> <rules…>", (*Intp).cmdDef},
		"use":       {"use <name>", (*Intp).cmdUse},
		"list":      {"list", (*Intp).cmdList},
		"show":      {"show", (*Intp).cmdShow},
		"first":     {"first <N>", (*Intp).cmdFirst},
		"flatten":   {"flatten <p> <q>", (*Intp).cmdFlatten},
		"automaton": {"automaton <p> <q>", (*Intp).cmdAutomaton},
		"lr0":       {"lr0 [dotfile]", (*Intp).cmdLR0},
		"parikh":    {"parikh", (*Intp).cmdParikh},
		"recognize": {"recognize <word>", (*Intp).cmdRecognize},
		"lang":      {"lang <p> <q> <w1> … <wq>", (*Intp).cmdLang},
		"help":      {"help", (*Intp).cmdHelp},
	}
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if line = strings.TrimSpace(line); line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			tracer().Errorf("Error line %d: %v", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a command, given on a line by itself.
func (intp *Intp) Eval(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	if args[0] == "quit" || args[0] == "exit" {
		return true, nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return false, fmt.Errorf("unknown command %q, try 'help'", args[0])
	}
	tracer().Debugf("command %s %v", args[0], args[1:])
	err := cmd.run(intp, args[1:])
	if errors.Is(err, errUsage) {
		return false, fmt.Errorf("usage: %s", cmd.usage)
	}
	return false, err
}

func (intp *Intp) current() (*grammar.Grammar, error) {
	tag, err := intp.session.Current()
	if err != nil {
		return nil, err
	}
	return tag.G, nil
}

// --- Commands --------------------------------------------------------------

func (intp *Intp) cmdLoad(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return intp.load(args[0])
}

// load reads a grammar file and uses it. The grammar is named after the file.
func (intp *Intp) load(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	g, err := gdl.Parse(name, string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	intp.define(NewTag(name, g).WithOrigin(filename))
	return nil
}

func (intp *Intp) cmdDef(args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	g, err := gdl.Parse(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	intp.define(NewTag(args[0], g).WithOrigin("def"))
	return nil
}

func (intp *Intp) define(tag *Tag) {
	if old := intp.session.InsertTag(tag); old != nil {
		tracer().Infof("replacing %v", old)
	}
	intp.session.Use(tag.Name())
	pterm.Info.Println(fmt.Sprintf("using %v", tag))
}

func (intp *Intp) cmdUse(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	tag, err := intp.session.Use(args[0])
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("using %v", tag))
	return nil
}

func (intp *Intp) cmdList(args []string) error {
	data := pterm.TableData{{"Name", "Productions", "Origin"}}
	intp.session.Each(func(name string, tag *Tag) {
		data = append(data, []string{name, strconv.Itoa(tag.G.Size()), tag.Origin})
	})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

func (intp *Intp) cmdShow(args []string) error {
	g, err := intp.current()
	if err != nil {
		return err
	}
	g.Dump()
	pterm.Info.Println(fmt.Sprintf("grammar %s, start symbol %s", g.Name(), g.Start()))
	pterm.Println(g.String())
	return nil
}

func (intp *Intp) cmdFirst(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	g, err := intp.current()
	if err != nil {
		return err
	}
	A := grammar.N(args[0])
	if !g.HasNonterminal(A) {
		return fmt.Errorf("%s is not a non-terminal of %s", A, g.Name())
	}
	pterm.Info.Println(fmt.Sprintf("FIRST(%s) = %v", A, g.First(A)))
	return nil
}

func (intp *Intp) cmdFlatten(args []string) error {
	p, q, err := parameters(args)
	if err != nil {
		return err
	}
	g, err := intp.current()
	if err != nil {
		return err
	}
	var F *grammar.Grammar
	quiet("flat.grammar", func() {
		F, err = flatten.Flatten(p, q, g, flatten.Parallel(true))
	})
	if err != nil {
		return err
	}
	intp.session.InsertTag(NewTag(F.Name(), F).WithOrigin("flatten"))
	pterm.Info.Println(fmt.Sprintf("%s has %d non-terminals, %d terminals and %d productions",
		F.Name(), len(F.Nonterminals()), len(F.Terminals()), F.Size()))
	pterm.Info.Println(fmt.Sprintf("use it with 'use %s'", F.Name()))
	return nil
}

func (intp *Intp) cmdAutomaton(args []string) error {
	p, q, err := parameters(args)
	if err != nil {
		return err
	}
	fa, err := automaton.New(p, q)
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("%v, accepting state %d", fa, fa.Accepting()))
	data := pterm.TableData{{"State", "Block", "Entry", "Loop", "EntrySucc", "Closure"}}
	for _, i := range fa.States() {
		entry, esucc := "", ""
		if fa.IsEntry(i) {
			entry = "•"
			if fa.Block(i) < fa.Q() {
				e, _ := fa.EntrySuccessor(i)
				esucc = strconv.Itoa(e)
			}
		}
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(fa.Block(i)),
			entry,
			strconv.Itoa(fa.LoopSuccessor(i)),
			esucc,
			fmt.Sprintf("%v", fa.Closure(i)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

func (intp *Intp) cmdLR0(args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	g, err := intp.current()
	if err != nil {
		return err
	}
	lrgen := lr0.NewTableGenerator(g)
	lrgen.CreateTables()
	cfsm := lrgen.CFSM()
	data := pterm.TableData{{"State", "Items", "Action", "Transitions"}}
	for _, s := range cfsm.States() {
		items := make([]string, 0, 4)
		for _, item := range s.Items() {
			items = append(items, item.String())
		}
		trans := make([]string, 0, 4)
		for A, t := range cfsm.Transitions(s) {
			trans = append(trans, fmt.Sprintf("%s→%d", A, t.ID))
		}
		data = append(data, []string{
			strconv.Itoa(int(s.ID)),
			strings.Join(items, "\n"),
			lr0.ActionString(lrgen.ActionTable(), s.ID),
			strings.Join(trans, " "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if lrgen.HasConflicts {
		pterm.Warning.Println(fmt.Sprintf("%s is not LR(0)", g.Name()))
	}
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := cfsm.CFSM2GraphViz(f); err != nil {
			return err
		}
		pterm.Info.Println(fmt.Sprintf("CFSM written to %s", args[0]))
	}
	return nil
}

func (intp *Intp) cmdParikh(args []string) error {
	g, err := intp.current()
	if err != nil {
		return err
	}
	pterm.Info.Println(grammar.Parikh(g))
	return nil
}

// recognize takes either a single word of letters, e.g. "aabbcd", or
// a list of terminal names, e.g. "id + id".
func (intp *Intp) cmdRecognize(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	g, err := intp.current()
	if err != nil {
		return err
	}
	var tok scanner.Tokenizer
	if len(args) == 1 {
		tok, err = scanner.Letters(args[0])
	} else {
		tok, err = scanner.Fields(strings.Join(args, " "))
	}
	if err != nil {
		return err
	}
	derivation, err := g.Recognize(tok)
	if err != nil {
		return err
	}
	pterm.Success.Println(derivation)
	return nil
}

func (intp *Intp) cmdLang(args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	p, q, err := parameters(args[:2])
	if err != nil {
		return err
	}
	L, err := flatten.NewLanguage(p, q, args[2:]...)
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("L = %v over %v", L, L.Automaton()))
	return nil
}

func (intp *Intp) cmdHelp(args []string) error {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.usage)
	}
	list := make([]pterm.BulletListItem, 0, len(names)+1)
	slices.Sort(names)
	for _, n := range names {
		list = append(list, pterm.BulletListItem{Level: 0, Text: n})
	}
	list = append(list, pterm.BulletListItem{Level: 0, Text: "quit"})
	pterm.DefaultBulletList.WithItems(list).Render()
	return nil
}

// ---------------------------------------------------------------------------

func parameters(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errUsage
	}
	p, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("p: %w", err)
	}
	q, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("q: %w", err)
	}
	return p, q, nil
}
