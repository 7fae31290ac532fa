package main

import (
	"fmt"
	"strings"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"

	"github.com/spf13/cobra"
)

func newDetailCmd(opts *options) *cobra.Command {
	var (
		index int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "detail NAME...",
		Short: "Print the profile dialogue for a person",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.engine(cmd)
			name := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if !all {
				_, err := fmt.Fprintln(out, svc.Detail(name, index))
				return err
			}
			for i := range conversation.DetailResponseCount {
				if _, err := fmt.Fprintf(out, "%d. %s\n", i+1, svc.Detail(name, i)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "response index, wrapping around")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every response")
	return cmd
}
