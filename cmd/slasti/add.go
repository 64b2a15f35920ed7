package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

func newAddCmd() *cobra.Command {
	var (
		title, url, note, tags string
		stamp                  int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a mark and print its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			if stamp == 0 {
				stamp = time.Now().Unix()
			}
			fix, err := s.Insert(cmd.Context(), stamp, title, url, note, domain.SplitTags(tags))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.Key{Stamp: stamp, Fix: fix})
			return nil
		},
	}

	addRootFlag(cmd)
	cmd.Flags().StringVar(&title, "title", "", "mark title")
	cmd.Flags().StringVar(&url, "url", "", "bookmarked URL")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	cmd.Flags().StringVar(&tags, "tags", "", "space separated tags")
	cmd.Flags().Int64Var(&stamp, "stamp", 0, "creation time in UNIX seconds (default now)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("tags")
	return cmd
}
