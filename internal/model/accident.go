package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Accident is a reported accident record as served by the accident API
type Accident struct {
	ID                   string     `json:"id"`
	Address              string     `json:"address"`
	City                 string     `json:"city,omitempty"`
	Latitude             FlexString `json:"latitude"`
	Longitude            FlexString `json:"longitude"`
	Severity             string     `json:"severity"`
	SeverityInPercentage FlexString `json:"severityInPercentage"`
	Date                 string     `json:"date"`
	ImageURL             *string    `json:"image_url,omitempty"`
}

// Location returns the fields an alert needs
func (a *Accident) Location() AccidentLocation {
	return AccidentLocation{
		Address:   a.Address,
		Latitude:  string(a.Latitude),
		Longitude: string(a.Longitude),
	}
}

// AccidentLocation is the read-only location of an accident.
// Latitude and longitude are numeric strings and may be empty.
type AccidentLocation struct {
	Address   string `json:"address"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// HasCoordinates reports whether both coordinates are present
func (l AccidentLocation) HasCoordinates() bool {
	return strings.TrimSpace(l.Latitude) != "" && strings.TrimSpace(l.Longitude) != ""
}

// MapMarker is what the map widget needs to place a pin
type MapMarker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// FlexString decodes a JSON string or number into its textual form.
// The accident detector writes coordinates either way.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}
