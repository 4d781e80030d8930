package models

import "fmt"

// Coordinates is a WGS84 position in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Place identifies a weather lookup target, either by coordinates or by free-text name.
// Coords wins when both are set.
type Place struct {
	Name   string
	Coords *Coordinates
}

// IsZero reports whether the place carries neither coordinates nor a name
func (p Place) IsZero() bool {
	return p.Coords == nil && p.Name == ""
}

func (p Place) String() string {
	if p.Coords != nil {
		return p.Coords.String()
	}
	return p.Name
}
