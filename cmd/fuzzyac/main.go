// Copyright 2026 The fuzzyac Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command fuzzyac locates bounded approximate occurrences of a set of
patterns inside a text, or runs the same matcher as a MessagePack IPC
server for integration with other processes.

# Usage

Search a line of text for patterns, allowing up to one edit per match:

	fuzzyac -patterns hello,world -fuzzy 1 -threshold 0.8 -text "H3llo W0rld!"

Find and replace instead of just reporting matches:

	fuzzyac -patterns foo,baz -replace bar,qux -threshold 0.8 -text "FOO and BAZ!"

Segment text into matched/unmatched spans:

	fuzzyac -patterns input,more -fuzzy 1 -segment -text "someinptandm0re"

Run as a MessagePack IPC server instead of a one-shot CLI command:

	fuzzyac -patterns hello,world -serve -config fuzzyac.toml

# Configuration

Runtime defaults are managed through a TOML file:

	[engine]
	threshold = 0.8
	policy = "default"
	max_substitutions = 1
	max_edits = 1

	[server]
	max_text_bytes = 1048576

The config file is created with defaults if it doesn't exist, and any flag
explicitly passed on the command line overrides the corresponding value.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kakserpom/fuzzyac/internal/logger"
	"github.com/kakserpom/fuzzyac/internal/suggest"
	"github.com/kakserpom/fuzzyac/pkg/config"
	"github.com/kakserpom/fuzzyac/pkg/fuzzyac"
	"github.com/kakserpom/fuzzyac/pkg/ipcserver"
)

const version = "0.1.0"

func main() {
	defaults := config.DefaultConfig()

	patterns := flag.String("patterns", "", "Comma-separated list of patterns to search for")
	patternsFile := flag.String("patterns-file", "", "File containing one pattern per line")
	text := flag.String("text", "", "Text to search (reads stdin if empty and not -serve)")
	threshold := flag.Float64("threshold", defaults.Engine.Threshold, "Minimum similarity to accept a match")
	fuzzy := flag.Int("fuzzy", defaults.Engine.MaxEdits, "Maximum total edits per match")
	caseInsensitive := flag.Bool("case-insensitive", defaults.Engine.CaseInsensitive, "Fold case during matching")
	policy := flag.String("policy", defaults.Engine.Policy, "Selection policy: default|greedy|coverage|unique")
	replace := flag.String("replace", "", "Comma-separated replacement texts, aligned by position with -patterns")
	segment := flag.Bool("segment", false, "Print the segmented (matched/unmatched) view of the text")
	suggestFlag := flag.Bool("suggest", false, "On zero matches, suggest the closest registered pattern")
	serve := flag.Bool("serve", false, "Run as a MessagePack IPC server over stdin/stdout")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debug := flag.Bool("d", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println("fuzzyac", version)
		os.Exit(0)
	}

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, _, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("config load failed, using defaults: %v", err)
		cfg = defaults
	}

	patternList, err := collectPatterns(*patterns, *patternsFile)
	if err != nil {
		log.Fatalf("loading patterns: %v", err)
	}
	if len(patternList) == 0 {
		log.Fatal("at least one pattern is required (-patterns or -patterns-file)")
	}

	limits := fuzzyac.FuzzyLimits{
		MaxInsertions:    *fuzzy,
		MaxDeletions:     *fuzzy,
		MaxSubstitutions: *fuzzy,
		MaxSwaps:         *fuzzy,
		MaxEdits:         *fuzzy,
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if !explicit["threshold"] {
		*threshold = cfg.Engine.Threshold
	}
	if !explicit["policy"] {
		*policy = cfg.Engine.Policy
	}
	if !explicit["fuzzy"] {
		e := cfg.Engine
		limits = fuzzyac.FuzzyLimits{MaxInsertions: e.MaxInsertions, MaxDeletions: e.MaxDeletions,
			MaxSubstitutions: e.MaxSubstitutions, MaxSwaps: e.MaxSwaps, MaxEdits: e.MaxEdits}
	}

	builder := fuzzyac.NewBuilder().CaseInsensitive(*caseInsensitive || cfg.Engine.CaseInsensitive).Fuzzy(limits)
	if err := builder.AddPatterns(patternList...); err != nil {
		log.Fatalf("registering patterns: %v", err)
	}
	automaton, err := builder.Build()
	if err != nil {
		log.Fatalf("building automaton: %v", err)
	}

	if *serve {
		lg := logger.New("ipcserver")
		log.SetDefault(lg)
		srv := ipcserver.NewServer(automaton, cfg.Server.MaxTextBytes)
		if err := srv.Start(); err != nil {
			log.Fatalf("server exited: %v", err)
		}
		return
	}

	input := *text
	if input == "" {
		data, err := readAllStdin()
		if err != nil {
			log.Fatalf("reading stdin: %v", err)
		}
		input = data
	}

	switch {
	case *replace != "":
		runReplace(automaton, patternList, strings.Split(*replace, ","), input, *threshold)
	case *segment:
		fmt.Println(automaton.SegmentText(input, *threshold))
	default:
		runSearch(automaton, input, *threshold, *policy, *suggestFlag, patternList)
	}
}

func collectPatterns(commaList, file string) ([]string, error) {
	var out []string
	if commaList != "" {
		for _, p := range strings.Split(commaList, ",") {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out, nil
}

func readAllStdin() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return sb.String(), err
		}
	}
	return sb.String(), nil
}

func runSearch(a *fuzzyac.Automaton, text string, threshold float64, policy string, suggestOnEmpty bool, patternList []string) {
	var matches []fuzzyac.Match
	switch policy {
	case "greedy":
		matches = a.SearchGreedy(text, threshold)
	case "coverage":
		matches = a.SearchCoverage(text, threshold)
	case "unique":
		matches = a.SearchNonOverlappingUnique(text, threshold)
	default:
		matches = a.Search(text, threshold)
	}

	if len(matches) == 0 {
		fmt.Println("no matches")
		if suggestOnEmpty {
			if best, sim, ok := suggest.Closest(text, patternList); ok {
				fmt.Printf("did you mean %q? (similarity %.2f)\n", best, sim)
			}
		}
		return
	}

	for _, m := range matches {
		fmt.Printf("%-12s %-12q [%d,%d) similarity=%.2f edits={ins:%d del:%d sub:%d swap:%d}\n",
			m.PatternText, m.Text, m.Start, m.End, m.Similarity,
			m.Edits.Insertions, m.Edits.Deletions, m.Edits.Substitutions, m.Edits.Swaps)
	}
}

func runReplace(a *fuzzyac.Automaton, patterns, replacements []string, text string, threshold float64) {
	n := len(patterns)
	if len(replacements) < n {
		n = len(replacements)
	}
	pairs := make([][2]string, n)
	for i := 0; i < n; i++ {
		pairs[i] = [2]string{patterns[i], replacements[i]}
	}
	r := fuzzyac.NewReplacer(a, pairs...)
	fmt.Println(r.Replace(text, threshold))
}
