package models

import (
	"regexp"
	"strings"
	"time"

	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

// departmentPattern accepts metropolitan (01-95, 2A, 2B) and overseas
// (971-976) department codes.
var departmentPattern = regexp.MustCompile(`^(0[1-9]|[1-8][0-9]|9[0-5]|2[AB]|97[1-6])$`)

// GeoLoc is a WGS84 coordinate.
type GeoLoc struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (g GeoLoc) validate() error {
	if g.Latitude < -90 || g.Latitude > 90 || g.Longitude < -180 || g.Longitude > 180 {
		return dErrors.New(dErrors.CodeValidation, "geolocation is out of range")
	}
	return nil
}

// Centre is an exam centre. Slots reference it by ID.
type Centre struct {
	ID         id.CentreID `json:"id"`
	Name       string      `json:"nom"`
	Address    string      `json:"adresse"`
	Department string      `json:"departement"`
	Geo        GeoLoc      `json:"geoloc"`
	Active     bool        `json:"active"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Details are the editable attributes of a centre.
type Details struct {
	Name       string
	Address    string
	Department string
	Geo        GeoLoc
}

func (d *Details) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	d.Department = strings.ToUpper(strings.TrimSpace(d.Department))
	if d.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "nom is required")
	}
	if !departmentPattern.MatchString(d.Department) {
		return dErrors.New(dErrors.CodeValidation, "departement must be a French department code")
	}
	return d.Geo.validate()
}

// NewCentre builds an active centre.
func NewCentre(centreID id.CentreID, d Details, now time.Time) (*Centre, error) {
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &Centre{
		ID:         centreID,
		Name:       d.Name,
		Address:    d.Address,
		Department: d.Department,
		Geo:        d.Geo,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Apply replaces the editable attributes.
func (c *Centre) Apply(d Details, now time.Time) error {
	if err := d.normalize(); err != nil {
		return err
	}
	c.Name = d.Name
	c.Address = d.Address
	c.Department = d.Department
	c.Geo = d.Geo
	c.UpdatedAt = now
	return nil
}

func (c *Centre) SetActive(active bool, now time.Time) {
	c.Active = active
	c.UpdatedAt = now
}

func (c *Centre) Clone() *Centre {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
