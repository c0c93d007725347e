// Package tabular streams a delimited file into header-keyed raw rows.
package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/tagmail/contact-cli/internal/model"
)

// Options configures one parse. A parse is single-use; start a fresh one for
// each file.
type Options struct {
	Delimiter  rune // default ','
	HasHeader  bool // if true, the first row names the columns
	LazyQuotes bool
	TrimSpace  bool
}

// Parse reads delimited text and sends header-keyed rows to a channel.
// The caller must consume the row channel. A malformed row (bad quoting,
// encoding garbage) surfaces as a single terminal error on the error channel
// and stops the sequence; rows already delivered remain valid. Both channels
// are closed when processing completes.
//
// Without a header row, columns are keyed by position ("col0", "col1", ...).
// Short rows bind missing columns to the empty string; extra cells are
// dropped.
func Parse(ctx context.Context, r io.Reader, opts Options) (<-chan model.RawRow, <-chan error) {
	rowCh := make(chan model.RawRow, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		var header []string
		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "tabular: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "tabular: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first {
				first = false
				if opts.HasHeader {
					header = record
					continue
				}
			}

			select {
			case rowCh <- bindRow(header, record):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "tabular: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// bindRow pairs each header with the corresponding cell. With no header,
// cells are keyed by position.
func bindRow(header []string, record []string) model.RawRow {
	row := make(model.RawRow, len(record))
	if len(header) == 0 {
		for i, v := range record {
			row["col"+strconv.Itoa(i)] = v
		}
		return row
	}
	for i, h := range header {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
