package tabular

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmail/contact-cli/internal/model"
)

func collect(t *testing.T, rows <-chan model.RawRow, errs <-chan error) ([]model.RawRow, error) {
	t.Helper()
	var out []model.RawRow
	for row := range rows {
		out = append(out, row)
	}
	return out, <-errs
}

func TestParse_HeaderKeyedRows(t *testing.T) {
	t.Parallel()

	content := "name,email,Tag\nAna,ana@x.com,vip\n,bad@x.com,vip\nBob,bob@x.com,\n"
	rows, errs := Parse(context.Background(), strings.NewReader(content), Options{HasHeader: true, TrimSpace: true})

	out, err := collect(t, rows, errs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, model.RawRow{"name": "Ana", "email": "ana@x.com", "Tag": "vip"}, out[0])
	assert.Equal(t, "", out[1]["name"])
	assert.Equal(t, "", out[2]["Tag"])
}

func TestParse_NoHeader(t *testing.T) {
	t.Parallel()

	rows, errs := Parse(context.Background(), strings.NewReader("a,b\nc,d\n"), Options{})
	out, err := collect(t, rows, errs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, model.RawRow{"col0": "a", "col1": "b"}, out[0])
}

func TestParse_ShortRowPadsEmpty(t *testing.T) {
	t.Parallel()

	rows, errs := Parse(context.Background(), strings.NewReader("name,email,Tag\nAna\n"), Options{HasHeader: true})
	out, err := collect(t, rows, errs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, model.RawRow{"name": "Ana", "email": "", "Tag": ""}, out[0])
}

func TestParse_MalformedQuoteTerminates(t *testing.T) {
	t.Parallel()

	// First row is fine; the second has a bare quote mid-field. The first
	// row must still be delivered before the terminal error.
	content := "name,email,Tag\nAna,ana@x.com,vip\n\"broken,x,y\nBob,bob@x.com,vip\n"
	rows, errs := Parse(context.Background(), strings.NewReader(content), Options{HasHeader: true})

	out, err := collect(t, rows, errs)
	require.Error(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ana", out[0]["name"])
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	rows, errs := Parse(context.Background(), strings.NewReader(""), Options{HasHeader: true})
	out, err := collect(t, rows, errs)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParse_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, errs := Parse(ctx, strings.NewReader("name\nAna\nBob\n"), Options{HasHeader: true})
	_, err := collect(t, rows, errs)
	require.Error(t, err)
}

func TestParse_CustomDelimiter(t *testing.T) {
	t.Parallel()

	rows, errs := Parse(context.Background(), strings.NewReader("name;email\nAna;ana@x.com\n"),
		Options{HasHeader: true, Delimiter: ';'})
	out, err := collect(t, rows, errs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ana@x.com", out[0]["email"])
}
