package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/classification"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/service"
)

const (
	// MaxExtractionChars bounds the document text sent for extraction.
	MaxExtractionChars = 15000

	truncationMarker = "\n\n[... DOCUMENT TRUNCATED ...]\n\n"

	// Confidence bands used when reporting an extraction.
	ConfidenceGood    = 70
	ConfidencePartial = 40
)

// ExtractedProfile is the company profile read from a document. Fields the
// document does not mention are nil.
type ExtractedProfile struct {
	CompanyName              *string  `json:"company_name"`
	Country                  *string  `json:"country"`
	Sector                   *string  `json:"sector"`
	Subsector                *string  `json:"subsector"`
	BusinessDescription      *string  `json:"business_description"`
	Employees                *int     `json:"employees"`
	Revenue                  *string  `json:"revenue"`
	YearFounded              *int     `json:"year_founded"`
	TargetMarket             *string  `json:"target_market"`
	GeographicScope          []string `json:"geographic_scope"`
	WomenOwnershipPct        *float64 `json:"women_ownership_pct"`
	WomenManagementPct       *float64 `json:"women_management_pct"`
	WomenEmployeesPct        *float64 `json:"women_employees_pct"`
	BenefitsWomen            *bool    `json:"benefits_women"`
	BenefitsWomenDescription *string  `json:"benefits_women_description"`
	ProductsServices         *string  `json:"products_services"`
	MainClients              *string  `json:"main_clients"`
	CompetitiveAdvantage     *string  `json:"competitive_advantage"`
	Confidence               float64  `json:"confidence"`
	Notes                    []string `json:"extraction_notes"`
}

// Band reports "good", "partial" or "limited" for the extraction confidence.
func (p ExtractedProfile) Band() string {
	switch {
	case p.Confidence >= ConfidenceGood:
		return "good"
	case p.Confidence >= ConfidencePartial:
		return "partial"
	default:
		return "limited"
	}
}

// FilledFields counts the profile fields the document supplied.
func (p ExtractedProfile) FilledFields() int {
	n := 0
	for _, s := range []*string{
		p.CompanyName, p.Country, p.Sector, p.Subsector, p.BusinessDescription, p.Revenue,
		p.TargetMarket, p.BenefitsWomenDescription, p.ProductsServices, p.MainClients, p.CompetitiveAdvantage,
	} {
		if s != nil && strings.TrimSpace(*s) != "" {
			n++
		}
	}
	for _, f := range []*float64{p.WomenOwnershipPct, p.WomenManagementPct, p.WomenEmployeesPct} {
		if f != nil {
			n++
		}
	}
	if p.Employees != nil {
		n++
	}
	if p.YearFounded != nil {
		n++
	}
	if p.BenefitsWomen != nil {
		n++
	}
	if len(p.GeographicScope) > 0 {
		n++
	}
	return n
}

// ProfileUpdate maps the extracted fields onto a deal profile update. Only
// supplied fields are set. Company name and country stay as entered.
func (p ExtractedProfile) ProfileUpdate(current domain.TwoXInput) service.ProfileUpdate {
	upd := service.ProfileUpdate{
		Sector:          nonBlank(p.Sector),
		Subsector:       nonBlank(p.Subsector),
		Description:     nonBlank(p.BusinessDescription),
		Employees:       p.Employees,
		Revenue:         nonBlank(p.Revenue),
		YearFounded:     p.YearFounded,
		TargetMarket:    nonBlank(p.TargetMarket),
		GeographicScope: p.GeographicScope,
	}

	twoX := current
	changed := false
	if p.WomenOwnershipPct != nil {
		twoX.WomenOwnershipPct, changed = *p.WomenOwnershipPct, true
	}
	if p.WomenManagementPct != nil {
		twoX.WomenManagementPct, changed = *p.WomenManagementPct, true
	}
	if p.WomenEmployeesPct != nil {
		twoX.WomenEmployeesPct, changed = *p.WomenEmployeesPct, true
	}
	if p.BenefitsWomen != nil {
		twoX.BenefitsWomen, changed = domain.Beneficiary(*p.BenefitsWomen), true
	}
	if changed {
		upd.TwoX = &twoX
	}
	return upd
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ProfileExtractor reads a company profile out of document text.
type ProfileExtractor interface {
	Extract(ctx context.Context, documentText string) (*ExtractedProfile, error)
}

type profileExtractor struct {
	gen llm.Generator
}

// NewProfileExtractor creates a ProfileExtractor backed by gen.
func NewProfileExtractor(gen llm.Generator) ProfileExtractor {
	return &profileExtractor{gen: gen}
}

// Extract returns an error only when generation itself fails. An answer
// that cannot be read yields a zero-confidence profile with a note.
func (e *profileExtractor) Extract(ctx context.Context, documentText string) (*ExtractedProfile, error) {
	if strings.TrimSpace(documentText) == "" {
		return &ExtractedProfile{Notes: []string{"document contains no text"}}, nil
	}

	resp, err := e.gen.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtraction,
		SystemPrompt: extractionSystemPrompt,
		UserPrompt:   extractionPrompt(documentText),
	})
	if err != nil {
		return nil, fmt.Errorf("extracting profile: %w", err)
	}

	profile, err := llm.ExtractJSON(resp.Text, validateProfile)
	if err != nil {
		return &ExtractedProfile{Notes: []string{fmt.Sprintf("could not read the extraction: %v", err)}}, nil
	}
	return &profile, nil
}

func validateProfile(p ExtractedProfile) error {
	if p.Confidence < 0 || p.Confidence > 100 {
		return fmt.Errorf("confidence must be within 0-100, got %v", p.Confidence)
	}
	return nil
}

// TruncateDocument keeps the head and tail of text when it exceeds max
// characters, joined by a truncation marker.
func TruncateDocument(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	half := max / 2
	return string(runes[:half]) + truncationMarker + string(runes[len(runes)-half:])
}

func sectorChoices() string {
	names := classification.Sectors()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ", ")
}

const extractionSystemPrompt = `You are an expert in financial and ESG analysis of African SMEs. You extract
structured information from company documents (business plans, pitch decks,
financial statements). When a piece of information is not in the document,
return null for that field. Never guess.`

func extractionPrompt(documentText string) string {
	return `Read the document text below and extract the company profile as JSON.

Rules:
1. Extract only what the text states explicitly; use null otherwise.
2. Percentages are whole numbers (35 for 35%).
3. revenue is one of: "< 500K", "500K - 2M", "2M - 5M", "5M - 10M", "10M - 50M", "> 50M".
4. sector is one of: ` + sectorChoices() + `.
5. target_market is one of: "B2C", "B2B", "B2B2C", "B2G".
6. confidence (0-100) reflects how much of the profile the document supports.

Answer with this JSON object only:
{
  "company_name": string|null,
  "country": string|null,
  "sector": string|null,
  "subsector": string|null,
  "business_description": string|null (2-3 sentences),
  "employees": number|null,
  "revenue": string|null,
  "year_founded": number|null,
  "target_market": string|null,
  "geographic_scope": [string]|null,
  "women_ownership_pct": number|null,
  "women_management_pct": number|null,
  "women_employees_pct": number|null,
  "benefits_women": boolean|null,
  "benefits_women_description": string|null,
  "products_services": string|null,
  "main_clients": string|null,
  "competitive_advantage": string|null,
  "confidence": number,
  "extraction_notes": [string]
}

DOCUMENT TEXT:
---
` + TruncateDocument(documentText, MaxExtractionChars) + `
---`
}
