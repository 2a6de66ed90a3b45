package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"onboard/config"
	"onboard/model"
	"onboard/ui"
)

const Version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "onboard",
		Short:         "Assistente de onboarding da Tech4Humans",
		Long:          "Responde dúvidas sobre a empresa a partir dos documentos internos, busca tutoriais de GitHub, VSCode, Jira e Discord e marca reuniões no Google Calendar.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChat,
	}

	root.AddCommand(
		askCmd(),
		indexCmd(),
		authCmd(),
		mcpCmd(),
		transcriptsCmd(),
		keysCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, func(msg string) { fmt.Fprintln(os.Stderr, msg) })
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.newSession()
	if err != nil {
		return err
	}

	dataModel := model.NewModel(a.cfg, sess, Version)
	p := tea.NewProgram(
		ui.NewAppView(ctx, dataModel),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run chat: %w", err)
	}

	config.Debugf("[Main] session %s finished with %d turns", sess.ID(), sess.History().Len())
	return nil
}
