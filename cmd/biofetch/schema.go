// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biofetch/internal/link"
	"github.com/pdiddy/biofetch/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [source...]",
	Short: "Show the normalized columns for each catalog",
	Long: `Schema prints the ordered columns and value kinds every normalized table
of a catalog carries, and the column aliases used to detect merge keys.
With no arguments all catalogs are shown.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(schemaCmd)
}

type schemaField struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func runSchema(cmd *cobra.Command, args []string) error {
	sources := schema.Sources()
	if len(args) > 0 {
		sources = sources[:0:0]
		for _, a := range args {
			s, err := schema.ParseSource(a)
			if err != nil {
				return err
			}
			sources = append(sources, s)
		}
	}

	out := make(map[string][]schemaField, len(sources))
	for _, s := range sources {
		fields, err := schema.Fields(s)
		if err != nil {
			return err
		}
		for _, f := range fields {
			out[string(s)] = append(out[string(s)], schemaField{Name: f.Name, Kind: f.Kind.String()})
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for i, s := range sources {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeSchema(w, string(s), out[string(s)])
	}
	fmt.Fprintf(w, "\nmerge keys: GEO %s; SRA %s\n",
		strings.Join(link.GEOSampleAliases, ", "), strings.Join(link.SRASampleAliases, ", "))
	return nil
}

func writeSchema(w io.Writer, name string, fields []schemaField) {
	fmt.Fprintf(w, "%s (%d columns)\n", name, len(fields))
	fmt.Fprintf(w, "  %-4s  %-20s  %s\n", "#", "Column", "Kind")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 34))
	for i, f := range fields {
		fmt.Fprintf(w, "  %-4d  %-20s  %s\n", i+1, f.Name, f.Kind)
	}
}
