package alert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/roadwatch/roadwatch/internal/model"
)

// Subject is the fixed subject line of every accident alert
const Subject = "🚨 Accident Alert"

// MapLinkTemplate is the external map query URL; latitude and longitude are
// inserted verbatim.
const MapLinkTemplate = "https://www.google.com/maps/search/?api=1&query=%s,%s"

// Composition is an alert message without recipients
type Composition struct {
	Subject  string
	HTMLBody string
	TextBody string
	// MapLink is empty when a coordinate is missing
	MapLink string
}

// MapLink builds the map URL for loc, or "" when a coordinate is missing
func MapLink(loc model.AccidentLocation) string {
	if !loc.HasCoordinates() {
		return ""
	}
	return fmt.Sprintf(MapLinkTemplate, strings.TrimSpace(loc.Latitude), strings.TrimSpace(loc.Longitude))
}

// Compose builds the subject and bodies for loc. It is deterministic and has
// no side effects.
func Compose(loc model.AccidentLocation) Composition {
	link := MapLink(loc)

	var html bytes.Buffer
	// The template and its data are fixed; Execute only fails on write errors
	_ = alertHTML.Execute(&html, struct {
		Subject string
		Address string
		MapLink string
	}{Subject, loc.Address, link})

	textLink := link
	if textLink == "" {
		textLink = "coordinates unavailable"
	}

	return Composition{
		Subject:  Subject,
		HTMLBody: html.String(),
		TextBody: fmt.Sprintf(alertText, Subject, loc.Address, textLink),
		MapLink:  link,
	}
}
