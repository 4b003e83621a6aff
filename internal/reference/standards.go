package reference

import "fmt"

// Standard is one of the IFC Performance Standards.
type Standard struct {
	Number int
	Title  string
}

// Code returns the short form, e.g. "PS3".
func (s Standard) Code() string { return fmt.Sprintf("PS%d", s.Number) }

func (s Standard) String() string { return fmt.Sprintf("%s: %s", s.Code(), s.Title) }

var standards = []Standard{
	{1, "Assessment and Management of Environmental and Social Risks and Impacts"},
	{2, "Labor and Working Conditions"},
	{3, "Resource Efficiency and Pollution Prevention"},
	{4, "Community Health, Safety and Security"},
	{5, "Land Acquisition and Involuntary Resettlement"},
	{6, "Biodiversity Conservation and Sustainable Natural Resource Management"},
	{7, "Indigenous Peoples"},
	{8, "Cultural Heritage"},
}

// BaselineStandards apply to every investment regardless of sector.
var BaselineStandards = []int{1, 2}

// LookupStandard returns the standard with number n (1 to 8).
func LookupStandard(n int) (Standard, bool) {
	if n < 1 || n > len(standards) {
		return Standard{}, false
	}
	return standards[n-1], true
}

func Standards() []Standard {
	return append([]Standard(nil), standards...)
}
