// Package normalize coerces raw rows from either input path into canonical
// contact records, or rejects them with a reason.
package normalize

import (
	"errors"
	"strings"

	"github.com/tagmail/contact-cli/internal/model"
)

// Reject reasons. A rejected row is skipped before any write is attempted.
var (
	ErrMissingName  = errors.New("missing name")
	ErrMissingEmail = errors.New("missing email")
	ErrMissingTag   = errors.New("missing tag")
)

// IsReject reports whether err is one of the normalizer's reject reasons.
func IsReject(err error) bool {
	return errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingEmail) ||
		errors.Is(err, ErrMissingTag)
}

// Field aliases per origin. File uploads use the spreadsheet's header casing
// ("Tag", "Subscribed"); API records use lowercase keys.
var (
	nameKeys        = []string{"name", "Name"}
	emailKeys       = []string{"email", "Email"}
	tagKeys         = []string{"Tag", "tag"}
	descriptionKeys = []string{"description", "Description", "website"}
	subscribedKeys  = []string{"Subscribed", "subscribed"}
	locationKeys    = []string{"location", "Location", "address"}
	phoneKeys       = []string{"phone", "Phone", "number", "Number", "phone_number"}
)

func lookup(raw model.RawRow, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if t := strings.TrimSpace(v); t != "" {
				return t
			}
		}
	}
	return ""
}

// Normalize coerces raw into a CanonicalContact, or returns a reject reason.
// All fields are trimmed; an empty string and an absent key are identical.
// Deterministic, no side effects.
func Normalize(raw model.RawRow, origin model.Origin) (model.CanonicalContact, error) {
	name := lookup(raw, nameKeys)
	if name == "" {
		return model.CanonicalContact{}, ErrMissingName
	}
	email := lookup(raw, emailKeys)
	if email == "" {
		return model.CanonicalContact{}, ErrMissingEmail
	}
	tag := lookup(raw, tagKeys)
	if tag == "" {
		return model.CanonicalContact{}, ErrMissingTag
	}

	return model.CanonicalContact{
		Name:        name,
		Email:       email,
		Tag:         tag,
		Description: lookup(raw, descriptionKeys),
		Subscribed:  subscribed(lookup(raw, subscribedKeys), origin),
		Location:    lookup(raw, locationKeys),
		Phone:       lookup(raw, phoneKeys),
	}, nil
}

// subscribed applies the per-origin defaulting rule. File imports derive the
// value from a case-sensitive "true" substring match on the column; form and
// API rows are always subscribed.
func subscribed(v string, origin model.Origin) bool {
	if origin == model.OriginFile {
		return strings.Contains(v, "true")
	}
	return true
}
