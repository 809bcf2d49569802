package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/flat/grammar/gdl"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// Trace keys of the packages of this module.
var traceKeys = []string{
	"flat.cli",
	"flat.grammar",
	"flat.gdl",
	"flat.scanner",
	"flat.automaton",
	"flat.flatten",
	"flat.lr0",
}

// We provide the grammar of nested brackets as a default.
//
//  S  ➞ a S d  |  S'
//  S' ➞ b S' c  |  ϵ
//
const nestedGrammar = `
S  -> a S d | S' ;
S' -> b S' c | ε ;
`

// main() starts an interactive CLI, where users may load or define grammars
// and flatten them. Please refer to packages "flatten" and "automaton".
func main() {
	initDisplay()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load")
	panicky := flag.Bool("panic", false, "Panic on invalid automaton queries")
	flag.Parse()
	if err := initConfig(*tlevel, *panicky); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to FLAT") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up grammar table
	session := NewGrammarTable()
	g, err := gdl.Parse("G", nestedGrammar)
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(2)
	}
	session.InsertTag(NewTag("G", g).WithOrigin("builtin"))
	session.Use("G")
	//
	// set up REPL
	repl, err := readline.New("flat> ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	intp := &Intp{
		session: session,
		repl:    repl,
	}
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		if err := intp.load(input); err != nil {
			tracer().Errorf("%v", err)
			os.Exit(2)
		}
	}
	//
	// load an init file and start receiving commands
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*initf)           // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// initConfig sets up the global configuration and routes all tracers to a
// Go logger with the user supplied trace level.
func initConfig(tlevel string, panicky bool) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"tracelevel.root":           tlevel,
		"panic-on-automaton-misuse": panicky,
	}
	level := tracing.TraceLevelFromString(tlevel).String()
	for _, key := range traceKeys {
		conf["tracelevel."+key] = level
	}
	gconf.Initialize(conf)
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// quiet silences tracing of a package during f. Used for operations which
// trace heavily on level Debug, when only the result is of interest.
func quiet(key string, f func()) {
	t := tracing.Select(key)
	level := t.GetTraceLevel()
	if level > tracing.LevelInfo {
		t.SetTraceLevel(tracing.LevelInfo)
	}
	f()
	t.SetTraceLevel(level)
}
