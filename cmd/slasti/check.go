package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare mark records with the tag index",
		Long: "Reports tag links no record backs, record tags missing from the index and\n" +
			"records that do not decode. With --repair the index is rewritten to match\n" +
			"the records; damaged records are never touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			report, err := s.Check(cmd.Context(), repair)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !repair && len(report.Dangling)+len(report.Missing) > 0 {
				return errors.New("tag index out of sync, rerun with --repair")
			}
			return nil
		},
	}

	addRootFlag(cmd)
	cmd.Flags().BoolVar(&repair, "repair", false, "rewrite the tag index to match the records")
	return cmd
}
