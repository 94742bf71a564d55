package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/sirupsen/logrus"
)

// emailRe treats Unicode space separators and the BOM as whitespace, like
// the browser form it replaces.
var emailRe = regexp.MustCompile(`^[^\s\pZ\x{FEFF}@]+@[^\s\pZ\x{FEFF}@]+\.[^\s\pZ\x{FEFF}@]+$`)

type ContactForm struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Body    string `json:"body"`
}

type ContactReceipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	Message    string    `json:"message"`
}

// ValidationError maps form fields to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

// Validate applies the contact form rules; nil means the form is acceptable.
func (f ContactForm) Validate() *ValidationError {
	errs := map[string]string{}
	if tooShort(f.Name) {
		errs["name"] = "Full name must be at least 3 characters"
	}
	if tooShort(f.Subject) {
		errs["subject"] = "Subject must be at least 3 characters"
	}
	if !emailRe.MatchString(f.Email) {
		errs["email"] = "Must be a valid email"
	}
	if tooShort(f.Body) {
		errs["body"] = "Message must be at least 3 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// tooShort counts UTF-16 code units after trimming, so a character outside
// the BMP counts as two.
func tooShort(v string) bool {
	n := 0
	for _, r := range strings.TrimFunc(v, isFormSpace) {
		n += utf16.RuneLen(r)
	}
	return n < 3
}

func isFormSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func (s *Service) SubmitContact(_ context.Context, form ContactForm) (ContactReceipt, error) {
	if verr := form.Validate(); verr != nil {
		return ContactReceipt{}, verr
	}

	r := ContactReceipt{
		ID:         s.newID(),
		ReceivedAt: s.now().UTC(),
		Message:    "Message sent! We'll be in touch soon.",
	}
	s.log.WithFields(logrus.Fields{
		"contact_id": r.ID,
		"name":       strings.TrimSpace(form.Name),
		"email":      form.Email,
		"subject":    strings.TrimSpace(form.Subject),
	}).Info("contact message received")
	return r, nil
}
