// Copyright 2025 The wordrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordrack rack solver: a MessagePack IPC server,
an interactive CLI, and the dictionary build tool.

wordrack answers "which words can I make from these tiles?" for Scrabble
style racks. Racks may hold up to two blanks, written as "?". Words are found
through an anagram dictionary keyed by each word's sorted letters: every
subset of the rack is sorted and looked up.

# Usage

Build a dictionary from a word list, one word per line:

	wordrack -build words.txt -out data/ -format chunk
	wordrack -build words.txt -out anagrams.msgpack -format msgpack

Chunks follow the word list order, so a list sorted by frequency lets a
smaller dictionary size keep the common words. Files written by other
tools as a CBOR map of sorted letters to words load as .cbor.

Start the server over the chunk directory:

	wordrack -data data/

Query interactively:

	wordrack -c -data anagrams.msgpack -by-length

# Configuration

Runtime configuration lives in a TOML file, created with defaults when missing:

	[query]
	max_rack = 15
	min_length = 2
	wildcard = "?"
	max_wildcards = 2
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	fold_case = true

	[dict]
	path = "data/"
	format = "chunk"
	chunk_size = 5000
	max_chunks = 0

	[server]
	max_results = 4096

	[cli]
	default_limit = 0
	by_length = false

Flags given on the command line win over the file.

# IPC Protocol

See package server. In short:

	{"id": "req1", "r": "hotel?", "l": 20}
	{"id": "req1", "w": ["eh", "el", ...], "c": 118, "t": 310}

# Command Line Flags

	-data string
	    Dictionary file or directory of dict_NNNN.bin chunks
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-config string
	    Path to config.toml
	-build string
	    Word list to build a dictionary from
	-out string
	    Output file, or directory for -format chunk
	-format string
	    Output format: bin, msgpack, json, cbor, text or chunk
	-limit int
	    Words printed per rack in CLI mode (0 for all)
	-max-rack int
	    Longest rack accepted, blanks included
	-by-length
	    Group CLI output by word length
	-raw-case
	    Keep letter case when building and searching
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordrack/internal/cli"
	"github.com/bastiangx/wordrack/internal/logger"
	"github.com/bastiangx/wordrack/internal/utils"
	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/bastiangx/wordrack/pkg/config"
	"github.com/bastiangx/wordrack/pkg/dictionary"
	"github.com/bastiangx/wordrack/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordrack"
	gh      = "https://github.com/bastiangx/wordrack"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow between build, CLI and server modes.
func main() {
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI instead of the msgpack server")
	configPath := flag.String("config", "", "Path to config.toml")
	dataPath := flag.String("data", defaults.Dict.Path, "Dictionary file or chunk directory")
	buildFrom := flag.String("build", "", "Word list to build a dictionary from")
	outPath := flag.String("out", "", "Output file, or directory for -format chunk")
	format := flag.String("format", defaults.Dict.Format, "Output format for -build: bin, msgpack, json, cbor, text, chunk")
	limit := flag.Int("limit", defaults.CLI.DefaultLimit, "Words printed per rack in CLI mode (0 for all)")
	maxRack := flag.Int("max-rack", defaults.Query.MaxRack, "Longest rack accepted, blanks included")
	byLength := flag.Bool("by-length", defaults.CLI.ByLength, "Group CLI output by word length")
	rawCase := flag.Bool("raw-case", false, "Keep letter case when building and searching")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	sigHandler()

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			appConfig.Dict.Path = *dataPath
		case "format":
			appConfig.Dict.Format = *format
		case "limit":
			appConfig.CLI.DefaultLimit = *limit
		case "max-rack":
			appConfig.Query.MaxRack = *maxRack
		case "by-length":
			appConfig.CLI.ByLength = *byLength
		case "raw-case":
			appConfig.Query.FoldCase = !*rawCase
		}
	})
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	var dictOpts []dictionary.Option
	if !appConfig.Query.FoldCase {
		dictOpts = append(dictOpts, dictionary.WithoutFolding())
	}

	if *buildFrom != "" {
		if err := build(*buildFrom, *outPath, appConfig, dictOpts); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		return
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		info := pathResolver.GetRuntimeInfo()
		log.Debug("runtime", "os", info["os"], "arch", info["arch"], "exe", info["executable_dir"], "cwd", info["current_dir"], "config", info["config_dir"])
	}
	resolvedData := pathResolver.GetDataPath(appConfig.Dict.Path)
	log.Debugf("Using dictionary at: %s", resolvedData)

	lookup, srvOpts, err := load(resolvedData, appConfig, dictOpts)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	finder := anagram.NewFinder(lookup, appConfig.FinderOptions()...)

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"limit", appConfig.CLI.DefaultLimit,
			"byLength", appConfig.CLI.ByLength,
			"maxRack", appConfig.Query.MaxRack)

		inputHandler := cli.NewInputHandler(finder, appConfig.CLI.DefaultLimit, appConfig.CLI.ByLength)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(finder, appConfig, srvOpts...)
	showStartupInfo(resolvedData, lookup)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// build turns a word list into a dictionary file or chunk directory.
func build(wordList, out string, cfg *config.Config, opts []dictionary.Option) error {
	if out == "" {
		return fmt.Errorf("-build needs -out")
	}
	format, err := dictionary.ParseFormat(cfg.Dict.Format)
	if err != nil {
		return err
	}

	file, err := os.Open(wordList)
	if err != nil {
		return fmt.Errorf("failed to open word list: %w", err)
	}
	defer file.Close()

	d, err := dictionary.BuildFromReader(file, opts...)
	if err != nil {
		return err
	}

	if format == dictionary.FormatChunk {
		chunks, err := dictionary.WriteChunks(out, d, cfg.Dict.ChunkSize)
		if err != nil {
			return err
		}
		log.Infof("Wrote %d chunks to %s", chunks, out)
	} else {
		if err := dictionary.SaveAs(out, d, format); err != nil {
			return err
		}
		// Load picks the format by extension
		if err := dictionary.ValidateFileFormat(out, format); err != nil {
			log.Warnf("%s will not load as written: %v", out, err)
		}
	}
	log.Infof("Built %s words under %s keys",
		utils.FormatWithCommas(d.Words()), utils.FormatWithCommas(d.Keys()))
	return nil
}

// load opens a single dictionary file, or a chunk directory whose size the
// server may change at runtime.
func load(path string, cfg *config.Config, opts []dictionary.Option) (anagram.Lookup, []server.Option, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	if !stat.IsDir() {
		d, err := dictionary.Load(path, opts...)
		if err != nil {
			return nil, nil, err
		}
		return d, []server.Option{server.WithDictionary(d)}, nil
	}

	loader := dictionary.NewLoader(path, opts...)
	if err := loader.LoadInitial(context.Background(), cfg.Dict.MaxChunks); err != nil {
		return nil, nil, err
	}
	return loader, []server.Option{server.WithRuntimeLoader(dictionary.NewRuntimeLoader(loader))}, nil
}

func printVersion() {
	out := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	out.SetStyles(styles)

	out.Print("")
	out.Print("[ wordrack ] Every word on your rack")
	out.Print("", "version", Version)
	out.Print("")
	for _, info := range dictionary.ListSupportedFormats() {
		out.Print("format", "name", info.Name, "desc", info.Description)
	}
	out.Print("")
	out.Print("use -h or --help to see available options")
	out.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataPath string, lookup anagram.Lookup) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" wordrack ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s )", dataPath)
	if sized, ok := lookup.(interface{ Dictionary() *dictionary.Dictionary }); ok {
		lookup = sized.Dictionary()
	}
	if d, ok := lookup.(*dictionary.Dictionary); ok {
		log.Infof("keys: %s, words: %s", utils.FormatWithCommas(d.Keys()), utils.FormatWithCommas(d.Words()))
	}
	log.Info("status: ready")
	println("==========")

	log.SetLevel(currentLevel)
}
