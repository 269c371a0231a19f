package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/user/groqcli/internal/chat"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send one prompt to the chat model and print the answer",
	Long:  "Send one prompt to the chat model. Without arguments the prompt is read interactively.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		provider := newProvider(cfg)

		found, err := chat.CheckModel(ctx, provider, cfg.Chat.Model)
		if err != nil {
			slog.Warn("could not fetch model list", "error", err)
		} else if !found {
			slog.Warn("chat model is not listed by the API", "model", cfg.Chat.Model)
		}

		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			rl, err := readline.New("Enter your prompt: ")
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			defer rl.Close()

			prompt, err = chat.ReadPrompt(rl, cmd.ErrOrStderr(), "The prompt cannot be empty.")
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Generating response. Please wait...")

		response, err := chat.New(provider, cfg.Chat.Model, cfg.Chat.Temperature).Run(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Response:")
		fmt.Fprintln(out, response)
		return nil
	},
}
