package vcard

import (
	"strings"

	"github.com/octobees/digital-card/api/internal/entity"
)

var (
	newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	lineBreakStripper = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")
)

// FromProfile builds a Card from a profile snapshot. The public email wins over the account email,
// and resources missing either a title or a URL are skipped.
func FromProfile(p *entity.Profile, photo []byte) Card {
	email := value(p.EmailPublic)
	if email == "" {
		email = p.Email
	}

	card := Card{
		FullName:  text(&p.FullName),
		Company:   text(p.Company),
		Title:     text(p.JobTitle),
		Email:     singleLine(&email),
		Phone:     singleLine(p.Phone),
		Website:   singleLine(p.Website),
		Location:  text(p.Location),
		Bio:       text(p.Bio),
		LinkedIn:  singleLine(p.LinkedInURL),
		Instagram: singleLine(p.InstagramURL),
		Facebook:  singleLine(p.FacebookURL),
		YouTube:   singleLine(p.YouTubeURL),
		Calendar:  singleLine(p.CalendarURL),
		Photo:     photo,
	}

	for _, res := range p.Resources {
		title := text(&res.Title)
		url := singleLine(&res.URL)
		if title == "" || url == "" {
			continue
		}
		card.Resources = append(card.Resources, Link{Label: title, URL: url})
	}
	return card
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// text trims and normalizes line endings to LF so Escape can encode them.
func text(s *string) string {
	return strings.TrimSpace(newlineNormalizer.Replace(value(s)))
}

// singleLine is for values written unescaped (URLs, email, phone): line breaks would corrupt the card.
func singleLine(s *string) string {
	return strings.TrimSpace(lineBreakStripper.Replace(value(s)))
}
