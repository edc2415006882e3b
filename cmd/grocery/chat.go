package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/grocerymate/internal/chat"
	"github.com/dukerupert/grocerymate/internal/completion"
	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/model"
	"github.com/dukerupert/grocerymate/internal/server"
)

const maxChatHistory = 20

var chatLang string

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the nutrition assistant",
	Long:  "With a question, prints one answer. Without one, starts a conversation read from stdin; an empty line or \"exit\" ends it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			lang := chat.ParseLang(chatLang)
			assistant := server.NewAssistant(a.cfg, a.notifier, a.logger)

			items, err := a.groceries.Items()
			if err != nil && !errors.Is(err, grocery.ErrNotSignedIn) {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				reply := assistant.Ask(cmd.Context(), nil, strings.Join(args, " "), items, lang)
				fmt.Fprintln(out, reply.Content)
				return nil
			}
			return converse(cmd, assistant, items, lang)
		})
	},
}

func converse(cmd *cobra.Command, assistant *chat.Assistant, items []model.GroceryItem, lang chat.Lang) error {
	p := chat.PhrasesFor(lang)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, p.EmptyChat)
	fmt.Fprintln(out, p.Examples)
	for _, ex := range p.ExampleList {
		fmt.Fprintf(out, "  - %s\n", ex)
	}

	var history []completion.Message
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprintf(out, "%s: ", p.You)
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		q := strings.TrimSpace(in.Text())
		if q == "" || strings.EqualFold(q, "exit") {
			return nil
		}

		reply := assistant.Ask(cmd.Context(), history, q, items, lang)
		fmt.Fprintf(out, "%s: %s\n", p.Assistant, reply.Content)

		history = append(history,
			completion.Message{Role: "user", Content: q},
			completion.Message{Role: "assistant", Content: reply.Content},
		)
		if len(history) > maxChatHistory {
			history = history[len(history)-maxChatHistory:]
		}
	}
}

func init() {
	chatCmd.Flags().StringVar(&chatLang, "lang", "en", "Answer language (en or np)")
	rootCmd.AddCommand(chatCmd)
}
