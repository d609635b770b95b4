package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talentscout/scout/internal/anonymize"
	"github.com/talentscout/scout/internal/config"
	"github.com/talentscout/scout/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive screening conversation in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func runChat(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.OpenDriver(cfg.Storage.Driver, cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	controller := newController(cfg)
	anonymizer := anonymize.New()

	session, greeting := controller.StartSession()
	fmt.Println(colorize(colorBold, "TalentScout"))
	fmt.Println("Type /restart to start the conversation over.")
	fmt.Println()
	fmt.Println(greeting)

	scanner := bufio.NewScanner(os.Stdin)
	saved := false

	for {
		fmt.Print(colorize(colorCyan, "> "))
		if !scanner.Scan() {
			break
		}

		if strings.TrimSpace(scanner.Text()) == "/restart" {
			greeting := controller.ResetSession(session)
			saved = false
			fmt.Println()
			fmt.Println(greeting)
			fmt.Println()
			continue
		}

		reply := controller.ProcessInput(ctx, session, scanner.Text())
		fmt.Println()
		fmt.Println(reply)
		fmt.Println()

		if !saved && controller.IsComplete(session) {
			candidate := storage.Candidate{
				ID:        uuid.NewString(),
				CreatedAt: time.Now().UTC(),
				Record:    anonymizer.Anonymize(session.Record()),
			}
			if err := store.AppendCandidate(candidate); err != nil {
				printWarning("could not save candidate record: %v", err)
			} else {
				printSuccess("candidate record saved (%s)", candidate.ID)
			}
			// One attempt per session; a failed save is reported, not retried.
			saved = true
		}

		if controller.IsEnded(session) {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
