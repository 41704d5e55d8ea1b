// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biofetch/internal/accession"
	"github.com/pdiddy/biofetch/internal/adapter"
	"github.com/pdiddy/biofetch/internal/export"
	"github.com/pdiddy/biofetch/internal/fetch"
	"github.com/pdiddy/biofetch/internal/integrate"
	"github.com/pdiddy/biofetch/internal/link"
	"github.com/pdiddy/biofetch/internal/schema"
	"github.com/pdiddy/biofetch/internal/store"
	"github.com/pdiddy/biofetch/pkg/types"
)

const sourceMerge = "merge"

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and normalize metadata from GEO, SRA, or ENA",
	Long: `Fetch retrieves metadata for one accession and normalizes it to the
catalog's fixed column set. With --source merge it fetches a GEO series and
an SRA search term concurrently and links samples to runs on the GSM
accession.

Without --out a short preview is printed. The extension of --out selects
the format: .csv, .tsv/.txt, .json, .yaml/.yml. When --out names a
directory (existing, or ending in /) the table is written there as CSV,
named after the accession.

Examples:
  biofetch fetch --source geo --id GSE181294 --limit 5
  biofetch fetch --source sra --id PRJNA730495 --out runs.csv
  biofetch fetch --source ena --id ERR1234567 --out runs.tsv
  biofetch fetch --source merge --geo GSE181294 --sra PRJNA730495 --how left --out linked.csv`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("source", "", "catalog to query: geo, sra, ena, or merge")
	fetchCmd.Flags().String("id", "", "accession (GSE..., PRJNA..., SRP..., ERR..., ...)")
	fetchCmd.Flags().Int("limit", types.Unlimited, "keep at most N records per catalog (default: all)")
	fetchCmd.Flags().String("out", "", "output file (extension selects csv, tsv, json, or yaml) or directory")
	fetchCmd.Flags().Int("preview", export.PreviewRows, "rows to preview when --out is not set")
	fetchCmd.Flags().Bool("save", false, "store the resulting table as a snapshot")

	// merge
	fetchCmd.Flags().String("geo", "", "merge: GEO series accession")
	fetchCmd.Flags().String("sra", "", "merge: SRA search term (BioProject, study, ...)")
	fetchCmd.Flags().String("how", string(link.Inner), "merge: join mode inner, left, right, or outer")
	fetchCmd.Flags().String("geo-key", "", "merge: GEO key column (default: detected)")
	fetchCmd.Flags().String("sra-key", "", "merge: SRA key column (default: detected)")
	fetchCmd.Flags().String("geo-snapshot", "", "merge: use a stored GEO table instead of fetching")
	fetchCmd.Flags().String("sra-snapshot", "", "merge: use a stored SRA table instead of fetching")

	fetchCmd.MarkFlagRequired("source")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("source")
	src = strings.ToLower(strings.TrimSpace(src))

	limit, _ := cmd.Flags().GetInt("limit")
	if cmd.Flags().Changed("limit") && limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", limit)
	}

	ctx := cmd.Context()
	client := fetch.New(cfg.Fetch, logger)
	w := cmd.OutOrStdout()

	var (
		tbl    *types.Table
		query  string
		notice string
		err    error
	)
	if src == sourceMerge {
		var res integrate.Result
		res, query, err = runMerge(ctx, cmd, client, limit)
		tbl, notice = res.Table, res.Notice
	} else {
		query, _ = cmd.Flags().GetString("id")
		tbl, err = fetchOne(ctx, client, src, query, limit)
	}
	if err != nil {
		return err
	}
	if notice != "" {
		fmt.Fprintf(w, "Note: %s\n", notice)
	}

	if err := writeTable(cmd, w, tbl, query); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		return saveSnapshot(ctx, w, store.Snapshot{Source: src, Query: query, Notice: notice}, tbl)
	}
	return nil
}

// fetchOne retrieves and normalizes a single catalog.
func fetchOne(ctx context.Context, client *fetch.Client, src, id string, limit int) (*types.Table, error) {
	s, err := schema.ParseSource(src)
	if err != nil {
		return nil, fmt.Errorf("--source %q (want geo, sra, ena, or merge): %w", src, err)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("--id is required for --source %s", s)
	}
	if typ, norm := accession.Classify(id); typ != accession.TypeUnknown {
		logger.Debug("classified accession", "id", norm, "type", typ.String())
	}

	a, err := adapter.For(s)
	if err != nil {
		return nil, err
	}
	recs, err := client.Fetch(ctx, s, id)
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s: %w", s, id, err)
	}
	tbl, err := a.Normalize(recs, limit)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s %s: %w", s, id, err)
	}
	logger.Info("normalized", "source", string(s), "id", id, "raw", len(recs), "rows", tbl.Len())
	return tbl, nil
}

// runMerge links a GEO table with an SRA table. Each side comes from a
// stored snapshot when one is named, otherwise from the archive.
func runMerge(ctx context.Context, cmd *cobra.Command, client *fetch.Client, limit int) (integrate.Result, string, error) {
	gse, _ := cmd.Flags().GetString("geo")
	term, _ := cmd.Flags().GetString("sra")
	geoSnap, _ := cmd.Flags().GetString("geo-snapshot")
	sraSnap, _ := cmd.Flags().GetString("sra-snapshot")
	how, _ := cmd.Flags().GetString("how")
	geoKey, _ := cmd.Flags().GetString("geo-key")
	sraKey, _ := cmd.Flags().GetString("sra-key")

	h, err := link.ParseHow(how)
	if err != nil {
		return integrate.Result{}, "", err
	}
	opts := link.Options{LeftKey: geoKey, RightKey: sraKey, How: h}

	if gse == "" && geoSnap == "" {
		return integrate.Result{}, "", fmt.Errorf("merge needs --geo or --geo-snapshot")
	}
	if term == "" && sraSnap == "" {
		return integrate.Result{}, "", fmt.Errorf("merge needs --sra or --sra-snapshot")
	}
	query := strings.TrimSpace(firstNonEmpty(gse, geoSnap) + " " + firstNonEmpty(term, sraSnap))

	if geoSnap == "" && sraSnap == "" {
		res, err := integrate.FetchAndMerge(ctx, client, gse, term, limit, limit, opts, logger)
		return res, query, err
	}

	geo, err := sideTable(ctx, client, schema.GEO, gse, geoSnap, limit)
	if err != nil {
		return integrate.Result{}, "", err
	}
	sra, err := sideTable(ctx, client, schema.SRA, term, sraSnap, limit)
	if err != nil {
		return integrate.Result{}, "", err
	}
	res, err := integrate.Combine(geo, sra, opts, logger)
	return res, query, err
}

func sideTable(ctx context.Context, client *fetch.Client, src schema.Source, id, snapshotID string, limit int) (*types.Table, error) {
	if snapshotID == "" {
		return fetchOne(ctx, client, string(src), id, limit)
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	snap, tbl, err := st.Load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if snap.Source != string(src) {
		logger.Warn("snapshot source differs from merge side", "snapshot", snap.ID, "source", snap.Source, "side", string(src))
	}
	return tbl.Head(limit), nil
}

// writeTable previews tbl or exports it to --out. stem names the file when
// --out is a directory.
func writeTable(cmd *cobra.Command, w io.Writer, tbl *types.Table, stem string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		n, _ := cmd.Flags().GetInt("preview")
		export.Preview(w, tbl, n)
		return nil
	}
	out = outputPath(out, stem)
	if err := export.WriteFile(out, tbl); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %d records to %s\n", tbl.Len(), out)
	return nil
}

// outputPath resolves a directory --out to <dir>/<slug>.csv.
func outputPath(out, stem string) string {
	isDir := strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator))
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		isDir = true
	}
	if !isDir {
		return out
	}
	return filepath.Join(out, accession.Slug(stem)+".csv")
}

func saveSnapshot(ctx context.Context, w io.Writer, meta store.Snapshot, tbl *types.Table) error {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Save(ctx, meta, tbl)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored snapshot %s (%d records)\n", id, tbl.Len())
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
