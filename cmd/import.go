package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tagmail/contact-cli/internal/model"
	"github.com/tagmail/contact-cli/internal/tabular"
)

var (
	importCSVPath   string
	importNoHeader  bool
	importDelimiter string
	importDedupe    bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import contacts from a delimited file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "open %s", importCSVPath)
		}
		defer f.Close() //nolint:errcheck

		opts := tabular.Options{
			HasHeader: !importNoHeader,
			TrimSpace: true,
		}
		if importDelimiter != "" {
			opts.Delimiter = rune(importDelimiter[0])
		}

		rows, errs := tabular.Parse(ctx, f, opts)

		owner := cfg.Store.Owner
		engine := newEngine(st, owner, importDedupe)
		report := engine.Run(ctx, rows, errs, model.OriginFile, storeWriter(st, owner))

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report")
		}
		cmd.Println(string(out))

		zap.L().Info("import complete",
			zap.String("csv", importCSVPath),
			zap.Int("accepted", report.Accepted),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to delimited file (required)")
	importCmd.Flags().BoolVar(&importNoHeader, "no-header", false, "file has no header row")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "field delimiter (default ',')")
	importCmd.Flags().BoolVar(&importDedupe, "dedupe", false, "skip rows whose (email, tag) already exists")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
