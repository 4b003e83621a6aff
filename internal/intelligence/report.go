package intelligence

import (
	"regexp"
	"strings"
)

// NotSpecified fills labelled report fields the text did not mention.
const NotSpecified = "Not specified"

// Report is the structured reading of a generated analysis.
type Report struct {
	ExecutiveSummary      string          `json:"executive_summary"`
	BusinessActivities    []Activity      `json:"business_activities"`
	EnvironmentalAnalysis string          `json:"environmental_analysis"`
	ClimateImpact         ClimateImpact   `json:"climate_impact"`
	SocialAnalysis        string          `json:"social_analysis"`
	GovernanceAnalysis    string          `json:"governance_analysis"`
	ImpactAlignment       ImpactAlignment `json:"impact_alignment"`
	Recommendations       Recommendations `json:"recommendations"`
}

type Activity struct {
	Activity        string `json:"activity"`
	RevenueShare    string `json:"revenue_share"`
	KeyESGFactors   string `json:"key_esg_factors"`
	ImpactAlignment string `json:"impact_alignment"`
}

type ClimateImpact struct {
	ClimateSolutions string `json:"climate_solutions"`
	Vulnerability    string `json:"vulnerability"`
	Adaptation       string `json:"adaptation"`
	CarbonFootprint  string `json:"carbon_footprint"`
	Decoupling       string `json:"decoupling"`
}

type ImpactAlignment struct {
	LocalEntrepreneurship string `json:"local_entrepreneurship"`
	DecentJobs            string `json:"decent_jobs"`
	ClimateAction         string `json:"climate_action"`
	GenderEmpowerment     string `json:"gender_empowerment"`
	Resilience            string `json:"resilience"`
	OverallImpact         string `json:"overall_impact"`
}

type Recommendations struct {
	DueDiligence []string `json:"due_diligence"`
	ESGClauses   []string `json:"esg_clauses"`
	KPIs         []KPI    `json:"kpis"`
}

type KPI struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Frequency string `json:"frequency"`
}

// ParseReport reads the markdown layout requested by the analysis prompts.
// Missing or malformed sections keep their defaults; it never fails.
func ParseReport(text string) Report {
	r := Report{
		BusinessActivities: []Activity{},
		ClimateImpact: ClimateImpact{
			ClimateSolutions: NotSpecified,
			Vulnerability:    NotSpecified,
			Adaptation:       NotSpecified,
			CarbonFootprint:  NotSpecified,
			Decoupling:       NotSpecified,
		},
		ImpactAlignment: ImpactAlignment{
			LocalEntrepreneurship: NotSpecified,
			DecentJobs:            NotSpecified,
			ClimateAction:         NotSpecified,
			GenderEmpowerment:     NotSpecified,
			Resilience:            NotSpecified,
			OverallImpact:         NotSpecified,
		},
		Recommendations: Recommendations{
			DueDiligence: []string{},
			ESGClauses:   []string{},
			KPIs:         []KPI{},
		},
	}

	r.ExecutiveSummary = section(text, "Executive Summary")
	r.EnvironmentalAnalysis = section(text, "Environmental Analysis")
	r.SocialAnalysis = section(text, "Social Analysis")
	r.GovernanceAnalysis = section(text, "Governance Analysis")

	for _, row := range table(section(text, "Business Activities Breakdown"), "Activity", "Revenue Share", "Key ESG Factors", "Impact Alignment") {
		r.BusinessActivities = append(r.BusinessActivities, Activity{
			Activity: row[0], RevenueShare: row[1], KeyESGFactors: row[2], ImpactAlignment: row[3],
		})
	}

	climate := section(text, "Climate Impact Assessment")
	labelled(climate, "Climate Solutions", &r.ClimateImpact.ClimateSolutions)
	labelled(climate, "Vulnerability", &r.ClimateImpact.Vulnerability)
	labelled(climate, "Adaptation", &r.ClimateImpact.Adaptation)
	labelled(climate, "Carbon Footprint", &r.ClimateImpact.CarbonFootprint)
	labelled(climate, "Decoupling Potential", &r.ClimateImpact.Decoupling)

	impact := section(text, "Impact Thesis Alignment")
	labelled(impact, "Local Entrepreneurship", &r.ImpactAlignment.LocalEntrepreneurship)
	labelled(impact, "Decent Jobs", &r.ImpactAlignment.DecentJobs)
	labelled(impact, "Climate Action", &r.ImpactAlignment.ClimateAction)
	labelled(impact, "Gender Empowerment", &r.ImpactAlignment.GenderEmpowerment)
	labelled(impact, "Resilience", &r.ImpactAlignment.Resilience)
	labelled(impact, "Overall Impact", &r.ImpactAlignment.OverallImpact)

	recs := section(text, "Recommendations")
	if items := list(section(recs, "Priority Due Diligence Actions")); len(items) > 0 {
		r.Recommendations.DueDiligence = items
	}
	if items := list(section(recs, "Suggested ESG Clauses")); len(items) > 0 {
		r.Recommendations.ESGClauses = items
	}
	if kpis := parseKPIs(section(recs, "Key Performance Indicators")); len(kpis) > 0 {
		r.Recommendations.KPIs = kpis
	}

	return r
}

var headingRe = regexp.MustCompile(`^(#+)\s*(.*?)\s*#*\s*$`)

// section returns the body under the first heading starting with title,
// up to the next heading of the same or a higher level.
func section(text, title string) string {
	lines := strings.Split(text, "\n")
	want := strings.ToLower(title)

	level := 0
	var body []string
	for _, line := range lines {
		m := headingRe.FindStringSubmatch(strings.TrimSpace(line))
		if level == 0 {
			if m != nil && strings.HasPrefix(strings.ToLower(stripNumbering(m[2])), want) {
				level = len(m[1])
			}
			continue
		}
		if m != nil && len(m[1]) <= level {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

var numberingRe = regexp.MustCompile(`^\d+[.)]\s*`)

func stripNumbering(s string) string {
	return numberingRe.ReplaceAllString(s, "")
}

var bulletRe = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)

// list returns the bullet or numbered items of a section.
func list(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if loc := bulletRe.FindStringIndex(line); loc != nil {
			if item := strings.TrimSpace(line[loc[1]:]); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// table returns the rows of the first markdown table whose header names
// every column, keeping rows with exactly that many cells.
func table(body string, columns ...string) [][]string {
	lines := strings.Split(body, "\n")
	header := -1
	for i, line := range lines {
		if hasAllColumns(line, columns) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[header+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, "|") {
			break
		}
		cells := splitRow(line)
		if isSeparatorRow(cells) || len(cells) != len(columns) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

func hasAllColumns(line string, columns []string) bool {
	l := strings.ToLower(line)
	for _, c := range columns {
		if !strings.Contains(l, strings.ToLower(c)) {
			return false
		}
	}
	return strings.Contains(line, "|")
}

func splitRow(line string) []string {
	var cells []string
	for _, c := range strings.Split(strings.Trim(line, "|"), "|") {
		cells = append(cells, strings.TrimSpace(c))
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

// labelled sets *dst to the text after "Label:" when the body has one.
func labelled(body, label string, dst *string) {
	re := regexp.MustCompile(`(?im)^[\s*_-]*` + regexp.QuoteMeta(label) + `[*_]*\s*[:\-]\s*(.+)$`)
	if m := re.FindStringSubmatch(body); m != nil {
		if v := strings.Trim(strings.TrimSpace(m[1]), "*_ "); v != "" {
			*dst = v
		}
	}
}

func parseKPIs(body string) []KPI {
	var kpis []KPI
	for _, row := range table(body, "KPI", "Target", "Frequency") {
		kpis = append(kpis, KPI{Name: row[0], Target: row[1], Frequency: row[2]})
	}
	if len(kpis) > 0 {
		return kpis
	}
	for _, item := range list(body) {
		kpis = append(kpis, KPI{Name: item})
	}
	return kpis
}
