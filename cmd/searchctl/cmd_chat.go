package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"

	"github.com/spf13/cobra"
)

const chatPrompt = "> "

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [QUERY...]",
		Short: "Hold a narrowing conversation about a person",
		Long: `chat starts a conversation from QUERY, or from the first line read,
and then advances one stage per line. "quit" or end of input stops it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.engine(cmd)
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())

			message := strings.Join(args, " ")
			for {
				if message == "" {
					fmt.Fprint(out, chatPrompt)
					if !in.Scan() {
						return in.Err()
					}
					message = strings.TrimSpace(in.Text())
					if message == "" {
						continue
					}
				}
				if message == "quit" || message == "exit" {
					return nil
				}

				turn, err := svc.Converse(cmd.Context(), message)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				} else {
					writeTurn(out, turn)
				}
				message = ""
			}
		},
	}
}

func writeTurn(w io.Writer, turn conversation.Turn) {
	fmt.Fprintf(w, "assistant: %s\n", turn.Response)
	for _, r := range turn.Results {
		fmt.Fprintf(w, "  - %s, %d, %s\n", r.Name, r.Age, r.Location)
	}
}
