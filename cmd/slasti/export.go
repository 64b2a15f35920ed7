package main

import (
	"bytes"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/slasti/internal/export"
	"github.com/MrSnakeDoc/slasti/internal/fsutil"
)

func newExportCmd() *cobra.Command {
	var user, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the store as Delicious XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, loggerClient, err := openStore(cmd)
			if err != nil {
				return err
			}
			if user == "" {
				user = filepath.Base(s.Root())
			}
			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), user, s.All(), loggerClient)
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, user, s.All(), loggerClient); err != nil {
				return err
			}
			return fsutil.WriteFile(output, buf.Bytes(), 0o644)
		},
	}

	addRootFlag(cmd)
	cmd.Flags().StringVar(&user, "user", "", "user name in the <posts> element (default: store directory name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, replaced atomically (default stdout)")
	return cmd
}
