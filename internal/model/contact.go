package model

import "time"

// Origin identifies which input path produced a raw row. Defaulting rules
// differ per origin (see internal/normalize).
type Origin string

const (
	OriginFile Origin = "file" // delimited-file upload
	OriginAPI  Origin = "api"  // business-search scrape
	OriginForm Origin = "form" // single-contact form submission
)

// RawRow is an untyped mapping of column or API field name to value,
// produced by the tabular parser or the business-search client. It exists
// only for the duration of one ingestion pass.
type RawRow map[string]string

// CanonicalContact is a normalized contact record. Name, Email, and Tag are
// required and non-empty after trimming; the normalizer rejects rows that
// would violate this rather than defaulting the missing field.
type CanonicalContact struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Tag         string `json:"tag"`
	Description string `json:"description,omitempty"`
	Subscribed  bool   `json:"subscribed"`
	Location    string `json:"location,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Contact is a stored contact as returned by the store.
type Contact struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CanonicalContact
}

// LocationOption is one geocoding autocomplete suggestion. Coordinates stay
// decimal strings end to end; they are only ever passed back to the business
// search endpoint, and a float round-trip would lose precision for nothing.
type LocationOption struct {
	Label string `json:"label"`
	Lat   string `json:"lat"`
	Lon   string `json:"lon"`
}

// NoEmailSentinel is stored as the email for scraped businesses that list no
// contact email.
const NoEmailSentinel = "No email available"

// BusinessRecord is the external business-search API shape.
type BusinessRecord struct {
	Name              string            `json:"name"`
	PhoneNumber       string            `json:"phone_number"`
	Website           string            `json:"website"`
	Address           string            `json:"address"`
	EmailsAndContacts EmailsAndContacts `json:"emails_and_contacts"`
}

// EmailsAndContacts is the nested contact block on a BusinessRecord.
type EmailsAndContacts struct {
	Emails []string `json:"emails"`
}

// FirstEmail returns the first listed email, or NoEmailSentinel if none.
func (b BusinessRecord) FirstEmail() string {
	if len(b.EmailsAndContacts.Emails) > 0 && b.EmailsAndContacts.Emails[0] != "" {
		return b.EmailsAndContacts.Emails[0]
	}
	return NoEmailSentinel
}

// ToRaw flattens the record into a RawRow for the ingestion engine, using
// the search query as the tag and the website as the description.
func (b BusinessRecord) ToRaw(tag string) RawRow {
	return RawRow{
		"name":        b.Name,
		"email":       b.FirstEmail(),
		"tag":         tag,
		"description": b.Website,
		"location":    b.Address,
		"phone":       b.PhoneNumber,
	}
}

// Complete reports whether the record carries all four fields the scrape
// path requires before it will build a row at all.
func (b BusinessRecord) Complete() bool {
	return b.Name != "" && b.PhoneNumber != "" && b.Website != "" && b.Address != ""
}
