// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biofetch/internal/export"
	"github.com/pdiddy/biofetch/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage stored table snapshots (list, show, delete)",
	Long: `Store manages tables saved with fetch --save in a local SQLite database
(store.path, default biofetch.db). Stored GEO and SRA tables can be linked
later with fetch --source merge --geo-snapshot ID --sra-snapshot ID.
Snapshot IDs may be abbreviated to any unique prefix.`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		snaps, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(snaps) == 0 {
			fmt.Fprintln(w, "No snapshots stored.")
			return nil
		}
		fmt.Fprintf(w, "%-8s  %-6s  %-30s  %6s  %s\n", "ID", "Source", "Query", "Rows", "Created")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, s := range snaps {
			q := s.Query
			if len(q) > 30 {
				q = q[:27] + "..."
			}
			fmt.Fprintf(w, "%-8s  %-6s  %-30s  %6d  %s\n",
				s.ID[:min(8, len(s.ID))], s.Source, q, s.Rows, s.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "\n%d snapshots\n", len(snaps))
		return nil
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Preview or export a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, tbl, err := st.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Snapshot %s: %s %s, %d records\n", snap.ID, snap.Source, snap.Query, snap.Rows)
		if snap.Notice != "" {
			fmt.Fprintf(w, "Note: %s\n", snap.Notice)
		}
		return writeTable(cmd, w, tbl, firstNonEmpty(snap.Query, snap.ID))
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete stored snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, id := range args {
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	storeShowCmd.Flags().String("out", "", "export to file (extension selects csv, tsv, json, or yaml) or directory")
	storeShowCmd.Flags().Int("preview", export.PreviewRows, "rows to preview when --out is not set")

	storeCmd.AddCommand(storeListCmd, storeShowCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}
