package certificate

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// DefaultIDPrefix is prepended to every generated certificate id.
const DefaultIDPrefix = "MD"

// ValidityMonths is how long a certificate stays valid after issue.
const ValidityMonths = 6

// Request is the data captured from one form submission. It is not modified
// after it has been handed to the composer.
type Request struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Photo     []byte    `json:"-"`
	ID        string    `json:"certificate_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

// FullName joins first and last name with a single space.
func (r Request) FullName() string {
	return r.FirstName + " " + r.LastName
}

// HasPhoto reports whether a non-empty photo was uploaded.
func (r Request) HasPhoto() bool {
	return len(r.Photo) > 0
}

// ValidUntil is IssuedAt plus ValidityMonths. Month-end overflow rolls over the
// same way time.AddDate does: Aug 31 + 6 months lands on Mar 3 in a non-leap year.
func (r Request) ValidUntil() time.Time {
	return r.IssuedAt.AddDate(0, ValidityMonths, 0)
}

// FormatDate renders t as day/month/year.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// IDGenerator builds ids of the form <prefix>-<unix millis>-<0..999>.
// Uniqueness is best-effort only.
type IDGenerator struct {
	Prefix string
	Now    func() time.Time
	Rand   func(n int) int
}

// NewIDGenerator returns a generator using the wall clock and math/rand.
func NewIDGenerator(prefix string) *IDGenerator {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultIDPrefix
	}
	return &IDGenerator{Prefix: prefix, Now: time.Now, Rand: rand.IntN}
}

func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d-%d", g.Prefix, g.Now().UnixMilli(), g.Rand(1000))
}

// NewRequest stamps an id and issue time onto the submitted fields.
func (g *IDGenerator) NewRequest(first, last, email, phone string, photo []byte) *Request {
	return &Request{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		Photo:     photo,
		ID:        g.Next(),
		IssuedAt:  g.Now(),
	}
}
