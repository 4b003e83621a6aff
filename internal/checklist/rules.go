package checklist

import (
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/eligibility"
	"github.com/alexanderramin/dealflow/internal/reference"
)

const (
	catGovernance  = "Governance"
	catLabour      = "Social - Labour"
	catEnvironment = "Environment"
	catHSE         = "HSE"
	catCommunities = "Communities"
	catGeneral     = "General"
	catSocial      = "Social"
	catHealth      = "Health Specific"
	catSecurity    = "Security"
	catGender      = "2X Challenge - Gender"
)

const (
	high   = domain.PriorityHigh
	medium = domain.PriorityMedium
	low    = domain.PriorityLow
)

func item(id, category, question string, priority domain.Priority, standard string, docs ...string) Item {
	return Item{ID: id, Category: category, Question: question, Documents: docs, Priority: priority, Standard: standard}
}

var baseItems = []Item{
	item("gov_1", catGovernance, "Verify the governance structure and organisation chart", high, "PS1",
		"Up-to-date bylaws", "AGM minutes for the last 3 years", "Organisation chart"),
	item("gov_2", catGovernance, "Existence and composition of the board / management committee", high, "PS1",
		"List of directors", "CVs of key managers"),
	item("gov_3", catGovernance, "Anti-corruption policy and code of ethics", medium, "PS1",
		"Code of ethics", "Anti-corruption policy", "Gifts register"),
	item("lab_1", catLabour, "Employment contracts compliant with the local labour code", high, "PS2",
		"Permanent/fixed-term contract templates", "Staff register"),
	item("lab_2", catLabour, "Pay policy and minimum wage compliance", high, "PS2",
		"Salary grid", "Sample payslips"),
	item("lab_3", catLabour, "Employee social security coverage (social security, insurance, pension)", medium, "PS2",
		"Social security certificates", "Insurance contracts"),
	item("lab_4", catLabour, "Non-discrimination and equal opportunity policy", medium, "PS2",
		"HR policy", "Sex-disaggregated staff data"),
}

var riskCategoryItems = map[domain.RiskCategory][]Item{
	domain.RiskBPlus: {
		item("env_b+_1", catEnvironment, "Existing and valid environmental and social impact assessment (ESIA)", high, "PS1",
			"ESIA report", "Environmental compliance certificate"),
		item("env_b+_2", catEnvironment, "Environmental and social management plan (ESMP) with indicators", high, "PS1",
			"ESMP", "Quarterly/annual monitoring reports"),
		item("hse_b+_1", catHSE, "Formal HSE policy and HSE management system", high, "PS2",
			"Signed HSE policy", "HSE manual", "ISO 14001/45001 certifications"),
		item("hse_b+_2", catHSE, "Accident and incident register with root-cause analysis", high, "PS2",
			"Accident/incident register", "Investigation reports"),
		item("hse_b+_3", catHSE, "Functioning HSE committee with meeting minutes", medium, "PS2",
			"HSE committee minutes", "Committee membership"),
		item("com_b+_1", catCommunities, "Operational community grievance mechanism", medium, "PS4",
			"Grievance procedure", "Grievance register", "Resolution reports"),
		item("com_b+_2", catCommunities, "Documented stakeholder consultations", medium, "PS1",
			"Consultation reports", "Attendance lists", "Meeting minutes"),
		item("env_b+_3", catEnvironment, "Environmental permits and authorisations in force", high, "PS1",
			"Environmental permit", "Operating authorisations"),
	},
	domain.RiskBMinus: {
		item("hse_b-_1", catHSE, "Designated HSE officer or focal point", medium, "PS2",
			"HSE job description", "Organisation chart"),
		item("hse_b-_2", catHSE, "Personal protective equipment (PPE) provided and used", medium, "PS2",
			"PPE list", "Distribution register", "Photos"),
		item("env_b-_1", catEnvironment, "Compliant waste and effluent management", medium, "PS3",
			"Waste procedure", "Contracts with licensed contractors", "Waste transfer notes"),
		item("env_b-_2", catEnvironment, "Water and energy consumption tracked", low, "PS3",
			"Consumption readings", "Utility bills"),
	},
	domain.RiskC: {
		item("gen_c_1", catGeneral, "General regulatory compliance (licences, authorisations)", medium, "PS1",
			"Trade register extract", "Operating licences", "Sector authorisations"),
		item("gen_c_2", catGeneral, "Basic compliance with the labour code", low, "PS2",
			"Internal rules", "Mandatory workplace notices"),
	},
}

var sectorItems = map[string][]Item{
	reference.SectorAgribusiness: {
		item("agri_1", catEnvironment, "Inventory and management of pesticides and plant-protection products", high, "PS3",
			"List of products used", "Safety data sheets (SDS)", "Applicator training"),
		item("agri_2", catSocial, "Working conditions of seasonal and day workers", high, "PS2",
			"Seasonal contracts", "Day-worker register", "Housing conditions where applicable"),
		item("agri_3", catSocial, "Child labour policy across the value chain", high, "PS2",
			"Child labour policy", "Supplier verification procedure"),
		item("agri_4", catEnvironment, "Water management and irrigation rights", medium, "PS3",
			"Water permits", "Consumption data", "Supply sources"),
		item("agri_5", catEnvironment, "Impact on biodiversity and local ecosystems", medium, "PS6",
			"Land-use map", "Biodiversity study if in a sensitive area"),
		item("agri_6", catSocial, "Relations with neighbouring farming communities", medium, "PS4",
			"Land agreements", "Community meeting minutes"),
	},
	reference.SectorIndustry: {
		item("ind_1", catEnvironment, "Air emissions and air quality", high, "PS3",
			"Emission measurements", "Classified-installation permit or equivalent", "Discharge register"),
		item("ind_2", catHSE, "Safety of machinery and industrial equipment", high, "PS2",
			"Maintenance register", "Equipment certifications", "Safety instructions"),
		item("ind_3", catEnvironment, "Management of chemicals and hazardous substances", high, "PS3",
			"Substance inventory", "SDS", "Compliant storage", "Training"),
		item("ind_4", catHSE, "Fire risk and evacuation plan", medium, "PS2",
			"Evacuation plan", "Fire drills", "Fire-fighting equipment"),
		item("ind_5", catEnvironment, "Industrial noise and nuisance", low, "PS3",
			"Noise measurements", "Neighbour complaints", "Mitigation measures"),
	},
	reference.SectorHealth: {
		item("san_1", catHealth, "Medical waste management", high, "PS3",
			"Medical waste procedure", "Licensed incineration contract", "Traceability records"),
		item("san_2", catHealth, "Health authorisations and accreditations", high, "PS1",
			"Health ministry authorisation", "Accreditations", "Approvals"),
		item("san_3", catHSE, "Protection of care staff against biological exposure", high, "PS2",
			"Exposure incident protocol", "Staff vaccination", "Medical PPE"),
		item("san_4", catHealth, "Management of medicines and pharmaceutical products", medium, "PS3",
			"Pharmacy procedure", "Cold chain", "Expiry management"),
	},
	reference.SectorEnergy: {
		item("ene_1", catEnvironment, "Biodiversity impact studies (solar/wind)", medium, "PS6",
			"Fauna/flora study", "Avoid/reduce/offset plan"),
		item("ene_2", catCommunities, "Land access and land rights", high, "PS5",
			"Land titles", "Agreements with landowners", "Compensation"),
		item("ene_3", catHSE, "Safety of electrical installations", high, "PS2",
			"Electrical certifications", "Staff electrical clearances", "Lockout procedures"),
	},
	reference.SectorFinancial: {
		item("fin_1", catGovernance, "Responsible lending and over-indebtedness policy", medium, "PS1",
			"Credit policy", "Repayment capacity assessment procedure"),
		item("fin_2", catSocial, "Client data protection", medium, "PS1",
			"Privacy policy", "Cybersecurity measures"),
		item("fin_3", catGovernance, "E&S policy for the loan/investment portfolio", high, "PS1",
			"Exclusion list", "Client E&S screening procedure"),
	},
	reference.SectorTech: {
		item("tech_1", catGovernance, "Personal data protection (GDPR or equivalent)", high, "PS1",
			"Data policy", "Processing register", "Consents"),
		item("tech_2", catEnvironment, "Electronic waste (WEEE) management", low, "PS3",
			"WEEE procedure", "Recycling channel"),
	},
	reference.SectorDistribution: {
		item("dist_1", catSocial, "Working conditions in the supply chain", medium, "PS2",
			"Supplier code of conduct", "Supplier audits"),
		item("dist_2", catHSE, "Warehouse and handling safety", medium, "PS2",
			"Traffic plan", "Forklift operator training", "PPE"),
	},
	reference.SectorTourism: {
		item("tour_1", catEnvironment, "Water and wastewater management", medium, "PS3",
			"Water consumption", "Wastewater treatment", "Discharge permit"),
		item("tour_2", catCommunities, "Relations with local communities and economic benefits", medium, "PS4",
			"Local purchasing policy", "Local employment", "Community initiatives"),
		item("tour_3", catEnvironment, "Impact on natural and cultural sites", medium, "PS6",
			"Proximity to protected areas", "Protection measures"),
	},
}

var fragileStateItems = []Item{
	item("frag_1", catSecurity, "Security risk assessment and security plan", high, "PS4",
		"Security risk analysis", "Security plan", "Emergency procedures"),
	item("frag_2", catGovernance, "Enhanced integrity due diligence (KYC/KYB)", high, "PS1",
		"Complete KYC checks", "UBO declarations", "Sanctions screening"),
	item("frag_3", catSecurity, "Management of security providers", medium, "PS4",
		"Security contracts", "Human rights training", "Code of conduct"),
	item("frag_4", catCommunities, "Risk of community tension or conflict", medium, "PS1",
		"Conflict analysis", "Map of sensitive stakeholders"),
}

var ldcItems = []Item{
	item("ldc_1", catSocial, "Minimum wage compliance and decent working conditions", high, "PS2",
		"Salary grid vs legal minimum", "Overtime records"),
}

var genderItems = map[eligibility.Criterion]Item{
	eligibility.Leadership: item("2x_leadership", catGender, "Action plan to increase the share of women in management", medium, "PS2",
		"Gender action plan", "Quantified targets", "Promotion policy"),
	eligibility.Employment: item("2x_employment", catGender, "Recruitment and retention strategy for women", medium, "PS2",
		"Inclusive recruitment policy", "Turnover data by sex", "Retention measures"),
	eligibility.Ownership: item("2x_entrepreneurship", catGender, "Documentation of shareholding and gender governance", low, "PS1",
		"Capitalisation table", "Bylaws", "Shareholders' agreement"),
}
