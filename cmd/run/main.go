package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/config"
	"github.com/wippyai/plugin-abi/engine"
	"github.com/wippyai/plugin-abi/memory"
	"github.com/wippyai/plugin-abi/record"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML config file")
		query       = flag.String("q", "", "Query to search for")
		menu        = flag.Int("menu", -1, "Show the context menu of result N")
		pluginName  = flag.String("plugin", "", "Plugin to load (overrides config)")
		engineName  = flag.String("engine", "", "Memory engine: linear or wazero (overrides config)")
		writeConfig = flag.String("write-config", "", "Write the effective config to a file and exit")
		stats       = flag.Bool("stats", false, "Print heap statistics after the call")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *pluginName != "" {
		cfg.Plugin = *pluginName
	}
	if *engineName != "" {
		cfg.Engine = *engineName
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if *interactive || (*query == "" && tty) {
		if !tty {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -q <query> [-menu N] [-config file.toml] [-plugin name] [-engine linear|wazero]")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(cfg, *query, *menu, *stats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, query string, menu int, showStats bool) error {
	ctx := context.Background()

	log, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	memory.SetLogger(log.Named("memory"))
	binding.SetLogger(log.Named("binding"))
	engine.SetLogger(log.Named("engine"))

	s, err := newSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	info, err := s.client.Info()
	if err != nil {
		return fmt.Errorf("plugin info: %w", err)
	}
	fmt.Printf("Plugin: %s (%s)\n", info.Name, info.ID)
	fmt.Printf("        %s\n", info.Description)

	results, err := s.client.Search(query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Printf("\nResults for %q: %d\n", query, len(results))
	for i, r := range results {
		printResult(i, r)
	}

	if menu >= 0 {
		if menu >= len(results) {
			return fmt.Errorf("result %d out of range (have %d)", menu, len(results))
		}
		entries, err := s.client.ContextMenu(results[menu])
		if err != nil {
			return fmt.Errorf("context menu: %w", err)
		}
		fmt.Printf("\nContext menu of result %d:\n", menu)
		for _, e := range entries {
			printMenuEntry(e)
		}
	}

	if showStats {
		st := s.heap.Stats()
		fmt.Printf("\nHeap: live=%d live_bytes=%d allocs=%d frees=%d grows=%d top=%d\n",
			st.Live, st.LiveBytes, st.Allocs, st.Frees, st.Grows, st.Top)
	}
	return nil
}

func printResult(i int, r record.SearchResult) {
	fmt.Printf("  [%d] %s\n", i, r.Title)
	if r.Subtitle != "" {
		fmt.Printf("      %s\n", r.Subtitle)
	}
	if r.Tooltip.Primary != "" || r.Tooltip.Secondary != "" {
		fmt.Printf("      tooltip: %s / %s\n", r.Tooltip.Primary, r.Tooltip.Secondary)
	}
	if r.IcoPath != "" {
		fmt.Printf("      icon: %s\n", r.IcoPath)
	}
}

func printMenuEntry(e record.ContextMenuResult) {
	fmt.Printf("  %s  (%s, key=0x%02X mods=0x%04X)\n", e.Title, e.PluginName, e.AcceleratorKey, e.AcceleratorModifiers)
}
