package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"onboard/config"
	"onboard/embeddings"
	"onboard/gcal"
	"onboard/mcp"
	"onboard/model"
	"onboard/storage"
)

func askCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ask [pergunta]",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			progress := func(string) {}
			if verbose {
				progress = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
			}

			a, err := newApp(ctx, progress)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.router.Run(ctx, strings.Join(args, " "), model.NewHistory())
			if err != nil {
				return err
			}
			if verbose {
				for i, step := range res.Steps {
					tool := step.Tool
					if step.ParseError {
						tool = "(formato inválido)"
					}
					fmt.Fprintf(os.Stderr, "[%d] %s(%s)\n    %s\n", i+1, tool, storage.Preview(step.Input, 80), storage.Preview(step.Observation, 160))
				}
				if res.Stop != nil {
					fmt.Fprintf(os.Stderr, "stopped: %v\n", res.Stop)
				}
			}
			fmt.Println(res.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print indexing progress and every routing step")
	return cmd
}

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the document index and print what it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			embedder, err := embeddings.New(cfg)
			if err != nil {
				return err
			}

			index, err := buildIndex(ctx, cfg, embedder, func(msg string) { fmt.Println(msg) })
			if err != nil {
				return err
			}
			defer index.Close()

			sources, err := index.Sources(ctx)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(sources))
			for name := range sources {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-40s %d trechos\n", name, sources[name])
			}
			total, err := index.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Total: %d trechos de %d documentos\n", total, len(names))
			if index.Path() != ":memory:" {
				fmt.Printf("Índice salvo em %s (dimensão %d)\n", index.Path(), index.Dimension())
			}
			return nil
		},
	}
}

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			oauthCfg, err := gcal.LoadOAuthConfig(cfg.CalendarCredentialsPath())
			if err != nil {
				return err
			}
			store, err := cfg.TokenStore("calendar")
			if err != nil {
				return err
			}

			openURL := func(url string) error {
				fmt.Printf("Abra este link para autorizar o acesso ao Google Calendar:\n\n  %s\n\n", url)
				if err := openBrowser(url); err != nil {
					config.Debugf("[Calendar] could not open browser: %v", err)
				}
				return nil
			}
			if _, err := gcal.Authorize(cmd.Context(), oauthCfg, store, openURL); err != nil {
				return err
			}
			fmt.Printf("Autorizado. Token salvo em %s\n", store.Path())
			return nil
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the onboarding tools over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol
			a, err := newApp(cmd.Context(), func(msg string) { fmt.Fprintln(os.Stderr, msg) })
			if err != nil {
				return err
			}
			defer a.Close()
			return mcp.ServeTools(cmd.Context(), a.catalog, Version, os.Stdin, os.Stdout)
		},
	}
}

func transcriptsCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "transcripts [id]",
		Short: "List, show or search saved chat transcripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.NewTranscriptStore(cfg.DataDir())
			if err != nil {
				return err
			}

			switch {
			case len(args) == 1:
				t, err := store.Load(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s (%s, %s)\n\n", t.Name, t.Model, t.CreatedAt.Format("02/01/2006 15:04"))
				for _, turn := range t.Turns {
					fmt.Printf("%s: %s\n\n", turn.Role, turn.Message)
				}

			case query != "":
				matches, err := store.Search(query)
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					fmt.Println("Nenhuma mensagem encontrada.")
				}
				for _, m := range matches {
					fmt.Printf("%s  %-30s %s: %s\n", shortID(m.TranscriptID), m.TranscriptName, m.Role, m.Preview)
				}

			default:
				list, err := store.List()
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("Nenhuma conversa salva. Ative save_transcripts no config.toml.")
				}
				for _, t := range list {
					fmt.Printf("%s  %s  %-30s %d mensagens\n", t.ID, t.UpdatedAt.Format("02/01 15:04"), t.Name, t.TurnCount)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "Search saved turns for text")
	return cmd
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the providers with a stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ids := cfg.CredentialStore.Providers()
			if len(ids) == 0 {
				fmt.Println("Nenhuma chave salva.")
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <provider> [key]",
		Short: "Store an API key (read from stdin when omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read key: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			if key == "" {
				return fmt.Errorf("empty key for %s", args[0])
			}
			return saveKey(cfg, args[0], key)
		},
	}

	rm := &cobra.Command{
		Use:   "rm <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return saveKey(cfg, args[0], "")
		},
	}

	cmd.AddCommand(set, rm)
	return cmd
}

func saveKey(cfg *config.Config, providerID, key string) error {
	if err := cfg.CredentialStore.Set(providerID, key); err != nil {
		return err
	}
	if err := cfg.CredentialStore.Save(cfg.DataDir()); err != nil {
		return err
	}
	fmt.Printf("Chaves salvas em %s\n", cfg.CredentialStore.Path(cfg.DataDir()))
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
