// Package vcard renders vCard 3.0 documents that Apple and Android contact apps import cleanly.
package vcard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	crlf = "\r\n"

	// MaxNoteLength is the number of characters of the bio kept in NOTE.
	MaxNoteLength = 2000
	// MaxResources matches the per-profile resource cap.
	MaxResources = 10

	firstLineWidth        = 75
	continuationLineWidth = 74
)

// ErrMissingFullName is returned when the card has no usable full name.
var ErrMissingFullName = errors.New("vcard: full name is required")

var (
	escaper      = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)
)

// Link is a labeled URL rendered as an itemN.URL / itemN.X-ABLabel pair.
type Link struct {
	Label string
	URL   string
}

// Card is the read-only snapshot a vCard is rendered from. Only FullName is required.
type Card struct {
	FullName  string
	FirstName string
	LastName  string
	Company   string
	Title     string
	Email     string
	Phone     string
	Website   string
	Location  string
	Bio       string

	LinkedIn  string
	Instagram string
	Facebook  string
	YouTube   string
	Calendar  string
	Resources []Link

	// Photo holds the raw JPEG bytes; nil when the fetch failed or there is no photo.
	Photo []byte
}

// Encode renders card as a CRLF-separated vCard 3.0 document.
func Encode(card Card) (string, error) {
	fullName := strings.TrimSpace(card.FullName)
	if fullName == "" {
		return "", ErrMissingFullName
	}

	first, last := SplitName(fullName)
	if card.FirstName != "" {
		first = card.FirstName
	}
	if card.LastName != "" {
		last = card.LastName
	}

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + Escape(fullName),
		"N:" + Escape(last) + ";" + Escape(first) + ";;;",
	}

	if card.Company != "" {
		lines = append(lines, "ORG:"+Escape(card.Company))
	}
	if card.Title != "" {
		lines = append(lines, "TITLE:"+Escape(card.Title))
	}
	if card.Email != "" {
		lines = append(lines, "EMAIL;TYPE=INTERNET:"+card.Email)
	}
	if phone := NormalizePhone(card.Phone); phone != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+phone)
	}
	if card.Website != "" {
		lines = append(lines, "URL;TYPE=WORK:"+card.Website)
	}
	if card.Location != "" {
		lines = append(lines, "ADR;TYPE=WORK:;;"+Escape(card.Location)+";;;;")
	}

	// iOS only shows custom-labeled links when they are grouped as itemN.
	item := 1
	for _, link := range labeledLinks(card) {
		lines = append(lines,
			fmt.Sprintf("item%d.URL:%s", item, link.URL),
			fmt.Sprintf("item%d.X-ABLabel:%s", item, Escape(link.Label)),
		)
		item++
	}

	if len(card.Photo) > 0 {
		lines = append(lines, "PHOTO;ENCODING=b;TYPE=JPEG:"+base64.StdEncoding.EncodeToString(card.Photo))
	}

	if card.Bio != "" {
		lines = append(lines, "NOTE:"+Escape(truncate(card.Bio, MaxNoteLength)))
	}

	lines = append(lines, "END:VCARD")

	for i, line := range lines {
		lines[i] = Fold(line)
	}
	return strings.Join(lines, crlf), nil
}

// EncodeCompact renders a photo-less, LF-separated card small enough for a QR code.
// Values are not escaped and only the first two social links are kept.
func EncodeCompact(card Card) (string, error) {
	fullName := strings.TrimSpace(card.FullName)
	if fullName == "" {
		return "", ErrMissingFullName
	}

	lines := []string{"BEGIN:VCARD", "VERSION:3.0", "FN:" + fullName}
	if card.Company != "" {
		lines = append(lines, "ORG:"+card.Company)
	}
	if card.Title != "" {
		lines = append(lines, "TITLE:"+card.Title)
	}
	if card.Email != "" {
		lines = append(lines, "EMAIL:"+card.Email)
	}
	if phone := NormalizePhone(card.Phone); phone != "" {
		lines = append(lines, "TEL:"+phone)
	}
	if card.Website != "" {
		lines = append(lines, "URL:"+card.Website)
	}
	if card.Location != "" {
		lines = append(lines, "ADR:;;"+card.Location+";;;;")
	}

	item := 1
	for _, link := range []Link{{"LinkedIn", card.LinkedIn}, {"Instagram", card.Instagram}} {
		if link.URL == "" {
			continue
		}
		lines = append(lines,
			fmt.Sprintf("item%d.URL:%s", item, link.URL),
			fmt.Sprintf("item%d.X-ABLabel:%s", item, link.Label),
		)
		item++
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n"), nil
}

func labeledLinks(card Card) []Link {
	fixed := []Link{
		{Label: "LinkedIn", URL: card.LinkedIn},
		{Label: "Instagram", URL: card.Instagram},
		{Label: "Facebook", URL: card.Facebook},
		{Label: "YouTube", URL: card.YouTube},
		{Label: "Calendar", URL: card.Calendar},
	}

	links := make([]Link, 0, len(fixed)+len(card.Resources))
	for _, link := range fixed {
		if link.URL != "" {
			links = append(links, link)
		}
	}

	kept := 0
	for _, res := range card.Resources {
		if kept == MaxResources {
			break
		}
		if strings.TrimSpace(res.Label) == "" || strings.TrimSpace(res.URL) == "" {
			continue
		}
		links = append(links, res)
		kept++
	}
	return links
}

// SplitName splits on the first space: the first token is the given name, the remainder the family name.
func SplitName(fullName string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(fullName), " ")
	return first, last
}

// NormalizePhone strips whitespace, parentheses and hyphens.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '-' {
			return -1
		}
		return r
	}, phone)
}

// Escape backslash-escapes backslash, semicolon, comma and newline.
func Escape(value string) string {
	return escaper.Replace(value)
}

// Unescape reverses Escape. Unknown escape sequences are kept verbatim.
func Unescape(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i == len(value)-1 {
			b.WriteByte(c)
			continue
		}
		switch next := value[i+1]; next {
		case '\\', ';', ',':
			b.WriteByte(next)
			i++
		case 'n', 'N':
			b.WriteByte('\n')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Fold splits a logical line longer than 75 characters into a 75-character first line followed by
// continuation lines of a leading space plus at most 74 characters, joined with CRLF.
// Width is counted in runes so multi-byte characters are never split.
func Fold(line string) string {
	runes := []rune(line)
	if len(runes) <= firstLineWidth {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + (len(runes)/continuationLineWidth+1)*3)
	b.WriteString(string(runes[:firstLineWidth]))
	for rest := runes[firstLineWidth:]; len(rest) > 0; {
		n := min(continuationLineWidth, len(rest))
		b.WriteString(crlf + " ")
		b.WriteString(string(rest[:n]))
		rest = rest[n:]
	}
	return b.String()
}

// Filename derives a filesystem-safe download name: lowercase, runs of anything outside [a-z0-9]
// collapsed to one underscore, no leading or trailing underscore, ".vcf" suffix.
// Non-ASCII letters count as separators; they are not transliterated.
func Filename(fullName string) string {
	stem := strings.Trim(nonAlnumRuns.ReplaceAllString(strings.ToLower(fullName), "_"), "_")
	if stem == "" {
		stem = "contact"
	}
	return stem + ".vcf"
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
