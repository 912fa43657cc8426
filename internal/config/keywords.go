package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keywords holds the immutable term sets driving segment location,
// classification, and link discovery. Components receive a copy at
// construction; nothing mutates these at runtime.
type Keywords struct {
	// Subjects gates which rows and sentences become candidates at all.
	Subjects []string `yaml:"subjects"`

	// Detention and Community are the disjoint scoring sets for
	// categorizing a candidate.
	Detention []string `yaml:"detention"`
	Community []string `yaml:"community"`

	// Facilities are proper names that imply detention when the
	// scoring sets are silent.
	Facilities []string `yaml:"facilities"`

	// LinkTerms filter link text when discovering documents on
	// budget index pages.
	LinkTerms []string `yaml:"link_terms"`
}

// DefaultKeywords returns the compiled-in term sets for Queensland
// youth justice spending documents.
func DefaultKeywords() Keywords {
	return Keywords{
		Subjects: []string{
			"youth justice", "youth detention", "juvenile justice",
			"cleveland youth detention", "west moreton youth detention",
			"youth crime", "young offender", "youth offender",
			"community youth justice", "youth engagement",
			"supervised community accommodation", "restorative justice",
			"youth bail", "youth court", "children's court",
			"youth rehabilitation", "youth diversion",
		},
		Detention: []string{
			"detention", "cleveland", "west moreton", "secure facility",
			"custody", "remand", "secure accommodation",
		},
		Community: []string{
			"community", "diversion", "restorative", "supervision",
			"bail support", "family support", "early intervention",
			"prevention", "rehabilitation", "reintegration",
		},
		Facilities: []string{
			"cleveland", "west moreton",
		},
		LinkTerms: []string{
			"youth justice", "children", "communities",
			"employment", "child safety", "attorney-general",
			"police", "corrective services",
		},
	}
}

// LoadKeywords reads a YAML keyword file and overlays it on the
// defaults: any list present in the file replaces the default list
// wholesale, absent lists keep their defaults.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return kw, fmt.Errorf("read keywords file: %w", err)
	}

	var file Keywords
	if err := yaml.Unmarshal(data, &file); err != nil {
		return kw, fmt.Errorf("parse keywords file: %w", err)
	}

	if len(file.Subjects) > 0 {
		kw.Subjects = file.Subjects
	}
	if len(file.Detention) > 0 {
		kw.Detention = file.Detention
	}
	if len(file.Community) > 0 {
		kw.Community = file.Community
	}
	if len(file.Facilities) > 0 {
		kw.Facilities = file.Facilities
	}
	if len(file.LinkTerms) > 0 {
		kw.LinkTerms = file.LinkTerms
	}

	return kw, nil
}
