package reference

import (
	"fmt"
	"strings"
)

// OtherCountry is the catch-all entry for countries outside the coverage list.
const OtherCountry = "Other"

type Regulation struct {
	EnvironmentalAgency string
	ESIARequired        bool
	ESIAThreshold       string
	LabourCode          string
	MinimumWage         string
	SocialSecurity      string
}

type ClimateProfile struct {
	Exposure  string
	MainRisks []string
	NDCTarget string
}

type GenderProfile struct {
	WomenLabourParticipation string
	GenderGapRank            int
	KeyChallenges            []string
}

type SecurityProfile struct {
	RiskLevel       string
	AffectedRegions []string
}

// CountryContext is the regulatory, climate, gender and security background
// for one country. Known is false for the generic fallback.
type CountryContext struct {
	Name       string
	Region     string
	ISOCode    string
	LDC        bool
	Fragile    bool
	Known      bool
	Regulation *Regulation
	Climate    *ClimateProfile
	Gender     *GenderProfile
	Security   *SecurityProfile
}

const (
	regionWest     = "West Africa"
	regionEast     = "East Africa"
	regionCentral  = "Central Africa"
	regionSouthern = "Southern Africa"
)

var countries = []CountryContext{
	{
		Name: "Côte d'Ivoire", Region: regionWest, ISOCode: "CIV",
		Regulation: &Regulation{"ANDE (National Environment Agency)", true, "All industrial projects, agricultural projects over 10ha", "Labour Code 2015", "60,000 FCFA/month (~90 EUR)", "CNPS mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Drought in the north", "Coastal flooding", "Coastal erosion"}, "28% reduction by 2030"},
		Gender:     &GenderProfile{"52%", 118, []string{"Access to land", "Access to finance", "Political representation"}},
	},
	{
		Name: "Senegal", Region: regionWest, ISOCode: "SEN", LDC: true,
		Regulation: &Regulation{"DEEC (Directorate of Environment)", true, "Category 1 and 2", "Labour Code 1997", "302 FCFA/hour (~55 EUR/month)", "CSS and IPRES mandatory"},
		Climate:    &ClimateProfile{"High", []string{"Drought", "Sea level rise", "Salinisation"}, "29.5% reduction by 2030"},
		Gender:     &GenderProfile{"33%", 130, []string{"Formal employment", "Access to credit", "Domestic workload"}},
	},
	{
		Name: "Mali", Region: regionWest, ISOCode: "MLI", LDC: true, Fragile: true,
		Regulation: &Regulation{"DNACPN", true, "Category A and B projects", "Labour Code 1992", "40,000 FCFA/month (~60 EUR)", "INPS mandatory"},
		Climate:    &ClimateProfile{"Very high", []string{"Severe drought", "Desertification", "Flooding"}, "31% reduction by 2030"},
		Gender:     &GenderProfile{"40%", 158, []string{"Early marriage", "Girls' education", "Access to health care"}},
		Security:   &SecurityProfile{"High", []string{"North", "Centre"}},
	},
	{
		Name: "Burkina Faso", Region: regionWest, ISOCode: "BFA", LDC: true, Fragile: true,
		Regulation: &Regulation{"BUNEE", true, "Projects listed in the Environment Code", "Labour Code 2008", "34,664 FCFA/month (~52 EUR)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"Very high", []string{"Drought", "Soil degradation", "Flooding"}, "18.2% reduction by 2030"},
		Gender:     &GenderProfile{"45%", 147, []string{"Early marriage", "Access to education"}},
		Security:   &SecurityProfile{"Very high", []string{"North", "East", "Sahel", "Centre-North"}},
	},
	{
		Name: "Niger", Region: regionWest, ISOCode: "NER", LDC: true, Fragile: true,
		Regulation: &Regulation{"BNEE", true, "Projects with significant impact", "Labour Code 2012", "30,047 FCFA/month (~45 EUR)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"Very high", []string{"Extreme drought", "Desertification", "Food crises"}, "25% reduction by 2030"},
		Gender:     &GenderProfile{"28%", 177, []string{"Early marriage (highest worldwide)", "Very low school enrolment"}},
		Security:   &SecurityProfile{"Very high", []string{"Tillabéri", "Tahoua", "Diffa", "Agadez"}},
	},
	{
		Name: "Benin", Region: regionWest, ISOCode: "BEN", LDC: true,
		Regulation: &Regulation{"ABE (Benin Environment Agency)", true, "Projects listed by decree", "Labour Code 1998", "40,000 FCFA/month (~60 EUR)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Flooding", "Coastal erosion", "Drought in the north"}, "21.4% reduction by 2030"},
		Gender:     &GenderProfile{"68%", 145, []string{"Access to land", "Gender-based violence"}},
	},
	{
		Name: "Togo", Region: regionWest, ISOCode: "TGO", LDC: true,
		Regulation: &Regulation{"ANGE", true, "Projects with significant impact", "Labour Code 2006", "35,000 FCFA/month (~53 EUR)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Coastal erosion", "Flooding", "Drought in the north"}, "31% reduction by 2030"},
		Gender:     &GenderProfile{"63%", 142, []string{"Access to credit", "Unpaid domestic work"}},
	},
	{
		Name: "Ghana", Region: regionWest, ISOCode: "GHA",
		Regulation: &Regulation{"EPA (Environmental Protection Agency)", true, "Schedule 1 & 2 EIA Regulations", "Labour Act 2003", "14.88 GHS/day (~47 EUR/month)", "SSNIT mandatory (18.5%)"},
		Climate:    &ClimateProfile{"Medium", []string{"Drought in the north", "Flooding", "Sea level rise"}, "45% reduction by 2030"},
		Gender:     &GenderProfile{"60%", 108, []string{"Domestic violence", "Pay inequality"}},
	},
	{
		Name: "Guinea", Region: regionWest, ISOCode: "GIN", LDC: true, Fragile: true,
		Regulation: &Regulation{"BGEEE", true, "Category A and B projects", "Labour Code 2014", "440,000 GNF/month (~40 EUR)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"High", []string{"Flooding", "Erosion", "Rainfall variability"}, "25% reduction by 2030"},
		Gender:     &GenderProfile{"45%", 150, []string{"Female genital mutilation (97%)", "Early marriage"}},
		Security:   &SecurityProfile{"Moderate", []string{"Sierra Leone/Liberia border"}},
	},
	{
		Name: "Kenya", Region: regionEast, ISOCode: "KEN",
		Regulation: &Regulation{"NEMA (National Environment Management Authority)", true, "Second Schedule EMCA", "Employment Act 2007", "15,201 KES/month (~105 EUR)", "NSSF and NHIF mandatory"},
		Climate:    &ClimateProfile{"High", []string{"Recurrent drought", "Flooding", "Landslides"}, "32% reduction by 2030"},
		Gender:     &GenderProfile{"72%", 57, []string{"Gender-based violence", "Land inequality"}},
	},
	{
		Name: "Uganda", Region: regionEast, ISOCode: "UGA", LDC: true,
		Regulation: &Regulation{"NEMA Uganda", true, "Third Schedule NEA", "Employment Act 2006", "No national minimum", "NSSF (15%)"},
		Climate:    &ClimateProfile{"High", []string{"Drought", "Flooding", "Landslides"}, "22% reduction by 2030"},
		Gender:     &GenderProfile{"67%", 126, []string{"Land rights", "Domestic violence", "Early marriage"}},
	},
	{
		Name: "Tanzania", Region: regionEast, ISOCode: "TZA", LDC: true,
		Regulation: &Regulation{"NEMC", true, "EMA Schedule", "Employment and Labour Relations Act 2004", "100,000-400,000 TZS/month depending on sector", "NSSF/PSSSF mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Drought", "Coastal flooding", "Rising sea levels"}, "30-35% reduction by 2030"},
		Gender:     &GenderProfile{"80%", 129, []string{"Gender-based violence", "Access to credit"}},
	},
	{
		Name: "Rwanda", Region: regionEast, ISOCode: "RWA", LDC: true,
		Regulation: &Regulation{"REMA", true, "Projects listed by Ministerial Order", "Labour Law 2018", "No official minimum", "RSSB mandatory (8%)"},
		Climate:    &ClimateProfile{"Medium", []string{"Flooding", "Landslides", "Drought in the east"}, "38% reduction by 2030"},
		Gender:     &GenderProfile{"84%", 6, []string{"Persistent economic inequality"}},
	},
	{
		Name: "Ethiopia", Region: regionEast, ISOCode: "ETH", LDC: true, Fragile: true,
		Regulation: &Regulation{"EPA Ethiopia", true, "Sector guidelines", "Labour Proclamation 2019", "No national minimum", "Public pension scheme"},
		Climate:    &ClimateProfile{"Very high", []string{"Severe drought", "Flooding", "Food crises"}, "68.8% reduction by 2030"},
		Gender:     &GenderProfile{"73%", 127, []string{"Early marriage", "Female genital mutilation"}},
		Security:   &SecurityProfile{"High", []string{"Tigray", "Amhara", "Oromia"}},
	},
	{
		Name: "Cameroon", Region: regionCentral, ISOCode: "CMR",
		Regulation: &Regulation{"MINEPDED", true, "Decree 2013/0171", "Labour Code 1992", "41,875 FCFA/month (~63 EUR)", "CNPS mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Flooding", "Drought in the north", "Coastal erosion"}, "32% reduction by 2030"},
		Gender:     &GenderProfile{"71%", 141, []string{"Gender-based violence", "Pay inequality"}},
		Security:   &SecurityProfile{"Moderate", []string{"North-West", "South-West", "Far North"}},
	},
	{
		Name: "DR Congo", Region: regionCentral, ISOCode: "COD", LDC: true, Fragile: true,
		Regulation: &Regulation{"ACE", true, "Projects with significant impact", "Labour Code 2002", "7,075 CDF/day (~3 EUR/day)", "CNSS mandatory"},
		Climate:    &ClimateProfile{"Medium", []string{"Deforestation", "Erosion", "Flooding"}, "21% reduction by 2030"},
		Gender:     &GenderProfile{"61%", 175, []string{"Sexual violence", "Armed conflict"}},
		Security:   &SecurityProfile{"Very high", []string{"East (North Kivu, South Kivu, Ituri)", "Kasaï"}},
	},
	{
		Name: "Madagascar", Region: regionSouthern, ISOCode: "MDG", LDC: true,
		Regulation: &Regulation{"ONE", true, "MECIE Decree 99-954", "Labour Code 2003", "200,000 MGA/month (~40 EUR)", "CNaPS mandatory"},
		Climate:    &ClimateProfile{"Very high", []string{"Tropical cyclones", "Drought in the south", "Flooding"}, "14% reduction by 2030"},
		Gender:     &GenderProfile{"84%", 139, []string{"High poverty", "Early marriage in the south"}},
	},
	{
		Name: "Mozambique", Region: regionSouthern, ISOCode: "MOZ", LDC: true, Fragile: true,
		Regulation: &Regulation{"MITADER", true, "Category A, B, C", "Labour Law 2007", "6,000-15,000 MZN/month depending on sector", "INSS mandatory"},
		Climate:    &ClimateProfile{"Very high", []string{"Cyclones (Idai, Kenneth)", "Flooding", "Drought in the south"}, "40% reduction by 2030"},
		Gender:     &GenderProfile{"80%", 134, []string{"Early marriage in the north", "Gender-based violence"}},
		Security:   &SecurityProfile{"High", []string{"Cabo Delgado"}},
	},
}

var countryIndex = func() map[string]int {
	idx := make(map[string]int, len(countries))
	for i, c := range countries {
		idx[strings.ToLower(c.Name)] = i
	}
	return idx
}()

// LookupCountry returns the context for name, matched case-insensitively.
// Unknown names get a generic context with Known set to false.
func LookupCountry(name string) CountryContext {
	if i, ok := countryIndex[strings.ToLower(strings.TrimSpace(name))]; ok {
		c := countries[i]
		c.Known = true
		return c
	}
	return CountryContext{Name: name, Region: OtherCountry}
}

// Countries lists every covered country followed by OtherCountry.
func Countries() []string {
	names := make([]string, 0, len(countries)+1)
	for _, c := range countries {
		names = append(names, c.Name)
	}
	return append(names, OtherCountry)
}

func FragileStates() []string {
	var names []string
	for _, c := range countries {
		if c.Fragile {
			names = append(names, c.Name)
		}
	}
	return names
}

func LDCCountries() []string {
	var names []string
	for _, c := range countries {
		if c.LDC {
			names = append(names, c.Name)
		}
	}
	return names
}

// ShortDescription is a one-line summary such as "West Africa - LDC - Fragile state".
// It is empty for unknown countries.
func ShortDescription(name string) string {
	c := LookupCountry(name)
	if !c.Known {
		return ""
	}
	parts := []string{c.Region}
	if c.LDC {
		parts = append(parts, "LDC")
	}
	if c.Fragile {
		parts = append(parts, "Fragile state")
	}
	return strings.Join(parts, " - ")
}

// PromptText renders the country context as plain text for model prompts.
func PromptText(name string) string {
	c := LookupCountry(name)
	if !c.Known {
		return "Country: " + name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "COUNTRY CONTEXT - %s\n", c.Name)
	fmt.Fprintf(&b, "Region: %s\n", c.Region)

	var statuses []string
	if c.LDC {
		statuses = append(statuses, "Least Developed Country (LDC)")
	}
	if c.Fragile {
		statuses = append(statuses, "Fragile state")
	}
	if len(statuses) > 0 {
		fmt.Fprintf(&b, "Status: %s\n", strings.Join(statuses, ", "))
	}

	if r := c.Regulation; r != nil {
		b.WriteString("\nE&S REGULATION:\n")
		fmt.Fprintf(&b, "- Environmental agency: %s\n", r.EnvironmentalAgency)
		fmt.Fprintf(&b, "- ESIA required: %s\n", yesNo(r.ESIARequired))
		fmt.Fprintf(&b, "- Labour code: %s\n", r.LabourCode)
		fmt.Fprintf(&b, "- Minimum wage: %s\n", r.MinimumWage)
	}
	if cl := c.Climate; cl != nil {
		b.WriteString("\nCLIMATE RISKS:\n")
		fmt.Fprintf(&b, "- Exposure: %s\n", cl.Exposure)
		fmt.Fprintf(&b, "- Risks: %s\n", strings.Join(cl.MainRisks, ", "))
	}
	if g := c.Gender; g != nil {
		b.WriteString("\nGENDER CONTEXT:\n")
		fmt.Fprintf(&b, "- Women's labour participation: %s\n", g.WomenLabourParticipation)
		fmt.Fprintf(&b, "- Gender Gap rank: %d\n", g.GenderGapRank)
	}
	if s := c.Security; s != nil {
		b.WriteString("\nSECURITY:\n")
		fmt.Fprintf(&b, "- Risk: %s\n", s.RiskLevel)
		fmt.Fprintf(&b, "- Affected areas: %s\n", strings.Join(s.AffectedRegions, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
