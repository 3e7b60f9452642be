// Package main is the entry point for the Sidekick CLI. Sidekick is a
// persona-driven assistant core: requests are classified into a behavioral
// mode, answered by a specialist persona, and routed across LLM providers
// with automatic fallback.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hhsystems1/hhssidekick-sub000/internal/agent"
	"github.com/hhsystems1/hhssidekick-sub000/internal/config"
	"github.com/hhsystems1/hhssidekick-sub000/internal/llm"
	"github.com/hhsystems1/hhssidekick-sub000/internal/logging"
	"github.com/hhsystems1/hhssidekick-sub000/internal/persona"
)

var (
	version    = "0.1.0"
	cfgPath    string
	verbose    bool
	specialist string
	log        zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sidekick",
		Short: "Sidekick - persona-driven assistant with LLM provider fallback",
		Long: `Sidekick answers through specialist personas (reflection, strategy,
systems, technical, creative), adapts its register to the detected
working mode, and falls back across OpenAI, Groq, Anthropic, and a
local Ollama daemon when providers fail.

Interactive session:  sidekick chat
One-shot question:    sidekick ask "should I rewrite this service?"
Provider status:      sidekick providers`,
		PersistentPreRunE: initLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.sidekick/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&specialist, "specialist", "s", "", "specialist persona (reflection, strategy, systems, technical, creative)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Sidekick v%s\n", version)
		},
	})

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	log, err = logging.New(logging.Options{
		Level: level,
		File:  cfg.Logging.File,
	})
	return err
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromPath(cfgPath)
	}
	return config.Load()
}

// runtime bundles everything a command needs, with a single cleanup.
type runtime struct {
	cfg          *config.Config
	router       *llm.Router
	stats        *llm.UsageStats
	orchestrator *agent.Orchestrator
	store        *agent.TurnStore
}

func (rt *runtime) close() {
	if rt.store != nil {
		rt.store.Close()
	}
}

func buildRuntime(ctx context.Context, withMemory bool) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	settings := make(map[llm.ProviderID]llm.ProviderSettings, len(cfg.LLM.Providers))
	for name, pc := range cfg.LLM.Providers {
		settings[llm.ProviderID(name)] = llm.ProviderSettings{
			Endpoint: pc.Endpoint,
			APIKey:   pc.APIKey,
			Timeout:  pc.Timeout(),
		}
	}

	stats := llm.NewUsageStats()
	router := llm.NewRouter(llm.BuildProviders(settings), llm.ProviderID(cfg.LLM.Provider), stats, log)

	if len(cfg.LLM.Models) > 0 {
		overrides := make(map[persona.SpecialistType]string, len(cfg.LLM.Models))
		for name, model := range cfg.LLM.Models {
			overrides[persona.SpecialistType(name)] = model
		}
		router.SetModelOverrides(overrides)
	}

	registry, err := persona.LoadFromFile(cfg.Persona.PreambleFile)
	if err != nil {
		return nil, fmt.Errorf("load persona preambles: %w", err)
	}

	var store *agent.TurnStore
	var memory *agent.ConversationMemory
	if withMemory {
		store, err = agent.OpenTurnStore(ctx, cfg.Memory.DBPath)
		if err != nil {
			return nil, err
		}
		memory, err = agent.NewConversationMemory(store, cfg.Memory.CacheSize)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	classifier := persona.NewModeClassifier(agent.NewRouterClassifier(router))
	orch := agent.NewOrchestrator(router, classifier, registry, memory,
		persona.SpecialistType(cfg.Persona.Default), log)

	return &runtime{
		cfg:          cfg,
		router:       router,
		stats:        stats,
		orchestrator: orch,
		store:        store,
	}, nil
}

func chatCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := buildRuntime(ctx, true)
			if err != nil {
				return err
			}
			defer rt.close()

			if conversationID == "" {
				conversationID = fmt.Sprintf("chat-%d", os.Getpid())
			}

			fmt.Printf("Sidekick v%s (primary: %s). Type 'exit' to quit.\n", version, rt.router.Primary())
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				resp := rt.orchestrator.ProcessRequest(ctx, &agent.AgentRequest{
					UserID:         currentUser(),
					ConversationID: conversationID,
					Message:        line,
					Specialist:     persona.SpecialistType(specialist),
				})

				fmt.Printf("\n%s\n", resp.Content)
				fmt.Printf("  [%s/%s", resp.Specialist, resp.Mode)
				if resp.Metadata.Model != "" {
					fmt.Printf(" via %s (%s)", resp.Metadata.Provider, resp.Metadata.Model)
				}
				fmt.Printf(", %dms]\n\n", resp.Metadata.ExecutionMS)

				if ctx.Err() != nil {
					break
				}
			}

			printStats(rt.stats.Snapshot())
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation ID to continue")
	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask a one-shot question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := buildRuntime(ctx, false)
			if err != nil {
				return err
			}
			defer rt.close()

			resp := rt.orchestrator.ProcessRequest(ctx, &agent.AgentRequest{
				UserID:     currentUser(),
				Message:    strings.Join(args, " "),
				Specialist: persona.SpecialistType(specialist),
			})

			fmt.Println(resp.Content)
			if resp.Metadata.Degraded {
				os.Exit(1)
			}
			return nil
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show provider availability and fallback order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			settings := make(map[llm.ProviderID]llm.ProviderSettings, len(cfg.LLM.Providers))
			for name, pc := range cfg.LLM.Providers {
				settings[llm.ProviderID(name)] = llm.ProviderSettings{
					Endpoint: pc.Endpoint,
					APIKey:   pc.APIKey,
					Timeout:  pc.Timeout(),
				}
			}
			providers := llm.BuildProviders(settings)
			primary := llm.ProviderID(cfg.LLM.Provider)

			fmt.Printf("Primary: %s\n\n", primary)
			for _, id := range llm.AllProviders() {
				status := "unavailable (no API key)"
				if providers[id].Available() {
					status = "available"
				}
				marker := " "
				if id == primary {
					marker = "*"
				}
				fmt.Printf("%s %-10s %s\n", marker, id, status)
			}

			fmt.Printf("\nFallback order for %s: %v\n", primary, llm.FallbackChain(primary))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stored conversation statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := agent.OpenTurnStore(ctx, cfg.Memory.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if conversationID == "" {
				fmt.Println("Pass --conversation to inspect a conversation.")
				return nil
			}

			n, err := store.CountTurns(ctx, conversationID)
			if err != nil {
				return err
			}
			fmt.Printf("Conversation %s: %d turns\n", conversationID, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation ID")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("provider:       %s\n", cfg.LLM.Provider)
			fmt.Printf("default persona: %s\n", cfg.Persona.Default)
			fmt.Printf("memory db:      %s\n", cfg.Memory.DBPath)
			fmt.Printf("cache size:     %d\n", cfg.Memory.CacheSize)
			fmt.Printf("log level:      %s\n", cfg.Logging.Level)
			for name, model := range cfg.LLM.Models {
				fmt.Printf("model override: %s -> %s\n", name, model)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Config ready at %s\n", cfg.GetDataDir())
			return nil
		},
	})

	return cmd
}

func printStats(snap llm.StatsSnapshot) {
	if snap.Requests == 0 {
		return
	}
	fmt.Printf("Session: %d requests, %d tokens, %.0fms avg latency",
		snap.Requests, snap.TokensUsed, snap.AvgLatencyMS)
	if snap.Fallbacks > 0 {
		fmt.Printf(", %d fallbacks", snap.Fallbacks)
	}
	fmt.Println()
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
