package model

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Identity is the composite key correlating demo records across ingestion
// passes and against stored overrides. Name and email are case- and
// diacritic-folded; mobile is kept raw. Being a struct, it cannot collide
// the way a delimiter-joined string key could when a field contains the
// delimiter.
type Identity struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// NewIdentity builds an identity key from raw client fields.
func NewIdentity(name, email, mobile string) Identity {
	return Identity{
		Name:   FoldKey(name),
		Email:  FoldKey(email),
		Mobile: strings.TrimSpace(mobile),
	}
}

// String renders the identity for logging and store keys. Fields are
// length-prefixed so the encoding is unambiguous regardless of content.
func (id Identity) String() string {
	var b strings.Builder
	for _, f := range []string{id.Name, id.Email, id.Mobile} {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte('.')
		b.WriteString(f)
	}
	return b.String()
}

// FoldKey lowercases, trims, and strips diacritics so that "José " and
// "jose" fold to the same key.
func FoldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
