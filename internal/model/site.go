package model

import (
	"fmt"
	"sort"
	"strings"
)

// NationalSite is one park site as described by its detail page.
// Values are fixed at construction; use the accessors to read them.
type NationalSite struct {
	category string
	name     string
	address  string
	zipcode  string
	phone    string
}

func NewNationalSite(category, name, address, zipcode, phone string) NationalSite {
	return NationalSite{
		category: category,
		name:     name,
		address:  address,
		zipcode:  zipcode,
		phone:    phone,
	}
}

// Category may be empty; an empty designation is distinct from the
// "No category" sentinel.
func (s NationalSite) Category() string {
	return s.category
}

func (s NationalSite) Name() string {
	return s.name
}

// Address is "<city>, <state>".
func (s NationalSite) Address() string {
	return s.address
}

func (s NationalSite) Zipcode() string {
	return s.zipcode
}

func (s NationalSite) Phone() string {
	return s.phone
}

// Info renders the one-line listing form, e.g.
// "Isle Royale (National Park): Houghton, MI 49931".
func (s NationalSite) Info() string {
	return fmt.Sprintf("%s (%s): %s %s", s.name, s.category, s.address, s.zipcode)
}

// NearbyPlace is derived from one external search record; it is never
// persisted on its own.
type NearbyPlace struct {
	Name     string
	Category string
	Address  string
	City     string
}

func (p NearbyPlace) String() string {
	return fmt.Sprintf("- %s (%s): %s, %s", p.Name, p.Category, p.Address, p.City)
}

// StateDirectory maps a lowercase state name to its absolute listing URL.
type StateDirectory map[string]string

// Lookup finds a state's listing URL, ignoring case and surrounding space.
func (d StateDirectory) Lookup(name string) (string, bool) {
	u, ok := d[strings.ToLower(strings.TrimSpace(name))]
	return u, ok
}

// Names returns the state names in lexical order.
func (d StateDirectory) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
