package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/schoolfinder/internal/app/system/csvutil"
	"github.com/dalemusser/schoolfinder/internal/app/system/imports"
	"github.com/dalemusser/schoolfinder/internal/app/system/indexes"
	"github.com/dalemusser/schoolfinder/internal/app/system/timeouts"
	"github.com/dalemusser/schoolfinder/internal/app/system/validators"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dryRunOutput is printed by --dry-run: the summary plus the records that
// would have been written.
type dryRunOutput struct {
	Summary imports.Summary `json:"summary"`
	Records any             `json:"records"`
}

func newImportRegionsCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-regions FILE",
		Short: "Import a regions sheet (REGION, REGION NAME, LEA, LA Name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), root, cmd.OutOrStdout(), args[0], imports.KindRegions, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the transformed batch without writing")
	return cmd
}

func newImportSchoolsCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-schools FILE",
		Short: "Import a schools sheet (URN, EstablishmentName, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), root, cmd.OutOrStdout(), args[0], imports.KindSchools, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the transformed batch without writing")
	return cmd
}

func runImport(ctx context.Context, root *rootOptions, out io.Writer, path, kind string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if dryRun {
		return prepareOnly(root.logger(), out, f, kind)
	}

	s, err := root.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()

	if err := validators.EnsureAll(ctx, s.db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, s.db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	im := imports.New(s.db, s.cache, s.log)
	var sum imports.Summary
	if kind == imports.KindRegions {
		sum, err = im.ImportRegions(ctx, f)
	} else {
		sum, err = im.ImportSchools(ctx, f)
	}
	if errors.Is(err, imports.ErrRejected) {
		_ = writeJSON(out, sum)
		return err
	}
	if err != nil {
		return err
	}
	s.log.Info("import complete",
		zap.String("kind", kind),
		zap.String("batch", sum.Batch),
		zap.Int("records", sum.Records),
		zap.Int64("inserted", sum.Inserted))
	return writeJSON(out, sum)
}

func prepareOnly(logger *zap.Logger, out io.Writer, r io.Reader, kind string) error {
	im := &imports.Importer{Options: csvutil.DefaultParseOptions(), Log: logger}

	var (
		sum     imports.Summary
		records any
		err     error
	)
	if kind == imports.KindRegions {
		sum, records, err = prepareRegions(im, r)
	} else {
		sum, records, err = prepareSchools(im, r)
	}
	sum.DryRun = true
	if err != nil && !errors.Is(err, imports.ErrRejected) {
		return err
	}
	if werr := writeJSON(out, dryRunOutput{Summary: sum, Records: records}); werr != nil {
		return werr
	}
	return err
}

func prepareRegions(im *imports.Importer, r io.Reader) (imports.Summary, any, error) {
	sum, regions, err := im.PrepareRegions(r)
	return sum, regions, err
}

func prepareSchools(im *imports.Importer, r io.Reader) (imports.Summary, any, error) {
	sum, schools, err := im.PrepareSchools(r)
	return sum, schools, err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
