package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmail/contact-cli/internal/model"
)

func TestNormalize_ValidFileRow(t *testing.T) {
	t.Parallel()

	raw := model.RawRow{
		"name":        "Ana",
		"email":       "ana@x.com",
		"Tag":         "vip",
		"description": "likes coffee",
		"Subscribed":  "true",
	}

	c, err := Normalize(raw, model.OriginFile)
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "ana@x.com", c.Email)
	assert.Equal(t, "vip", c.Tag)
	assert.Equal(t, "likes coffee", c.Description)
	assert.True(t, c.Subscribed)
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     model.RawRow
		wantErr error
	}{
		{"no name", model.RawRow{"email": "a@x.com", "Tag": "vip"}, ErrMissingName},
		{"empty name", model.RawRow{"name": "", "email": "a@x.com", "Tag": "vip"}, ErrMissingName},
		{"whitespace name", model.RawRow{"name": "   ", "email": "a@x.com", "Tag": "vip"}, ErrMissingName},
		{"no email", model.RawRow{"name": "Ana", "Tag": "vip"}, ErrMissingEmail},
		{"no tag", model.RawRow{"name": "Bob", "email": "bob@x.com"}, ErrMissingTag},
		{"whitespace tag", model.RawRow{"name": "Bob", "email": "bob@x.com", "Tag": " \t"}, ErrMissingTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tt.raw, model.OriginFile)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsReject(err))
		})
	}
}

func TestNormalize_TrimsFields(t *testing.T) {
	t.Parallel()

	raw := model.RawRow{
		"name":  "  Ana  ",
		"email": " ana@x.com ",
		"Tag":   " vip ",
	}

	c, err := Normalize(raw, model.OriginFile)
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "ana@x.com", c.Email)
	assert.Equal(t, "vip", c.Tag)
}

func TestNormalize_SubscribedFileOrigin(t *testing.T) {
	t.Parallel()

	// File imports derive subscribed from a case-sensitive "true" match;
	// anything else, including absence, is unsubscribed.
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", false},
		{"True", false},
		{"false", false},
		{"yes", false},
		{"", false},
	}

	for _, tt := range tests {
		raw := model.RawRow{"name": "Ana", "email": "a@x.com", "Tag": "vip"}
		if tt.value != "" {
			raw["Subscribed"] = tt.value
		}
		c, err := Normalize(raw, model.OriginFile)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Subscribed, "Subscribed=%q", tt.value)
	}
}

func TestNormalize_SubscribedDefaultsTrueOffFilePath(t *testing.T) {
	t.Parallel()

	// Form and API rows default to subscribed regardless of the field.
	for _, origin := range []model.Origin{model.OriginForm, model.OriginAPI} {
		raw := model.RawRow{"name": "Ana", "email": "a@x.com", "tag": "vip"}
		c, err := Normalize(raw, origin)
		require.NoError(t, err)
		assert.True(t, c.Subscribed, "origin %s", origin)
	}
}

func TestNormalize_APIFieldNames(t *testing.T) {
	t.Parallel()

	raw := model.RawRow{
		"name":        "Cafe",
		"email":       "hello@cafe.com",
		"tag":         "coffee",
		"description": "cafe.com",
		"location":    "1 Main St",
		"phone":       "555",
	}

	c, err := Normalize(raw, model.OriginAPI)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", c.Name)
	assert.Equal(t, "coffee", c.Tag)
	assert.Equal(t, "cafe.com", c.Description)
	assert.Equal(t, "1 Main St", c.Location)
	assert.Equal(t, "555", c.Phone)
	assert.True(t, c.Subscribed)
}

func TestNormalize_Deterministic(t *testing.T) {
	t.Parallel()

	raw := model.RawRow{"name": "Ana", "email": "a@x.com", "Tag": "vip"}
	first, err := Normalize(raw, model.OriginFile)
	require.NoError(t, err)
	second, err := Normalize(raw, model.OriginFile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
