package schema

// Tier is the priority class of a field. Lower tiers are asked sooner.
type Tier int

const (
	TierCritical Tier = iota
	TierHigh
	TierMedium
	TierLow
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// FieldType describes the value shape a field accepts.
type FieldType int

const (
	TypeString FieldType = iota
	TypeEnum
	TypeStringList
	TypeNumber
)

// Field is a single entry in the booking field schema.
type Field struct {
	Name     string
	Label    string // human-readable label for confirmation output
	Tier     Tier
	Required bool
	Type     FieldType
	Enum     []string // allowed values when Type is TypeEnum
	// Prompted controls whether the planner ever asks for this field.
	// Unprompted fields are still merged when the user volunteers them.
	Prompted bool
	// Question is the fallback phrasing used when the oracle cannot
	// produce one.
	Question string
	// Hint describes the expected response shape.
	Hint string
}

// ServiceTypes are the recognized service_type enum values.
var ServiceTypes = []string{
	"ac_repair",
	"furnace_maintenance",
	"installation",
	"cleaning",
	"ventilation_maintenance",
	"other",
}

// PropertyTypes are the recognized property_type enum values.
var PropertyTypes = []string{
	"apartment",
	"detached_house",
	"townhouse",
	"commercial",
	"other",
}

// SeverityLevels are the recognized severity enum values.
var SeverityLevels = []string{"critical", "high", "medium", "low"}

// Fields is the full booking schema in declaration order. Within a tier,
// declaration order is the ask order.
var Fields = []Field{
	{
		Name: "service_type", Label: "Service Type",
		Tier: TierCritical, Required: true, Type: TypeEnum, Enum: ServiceTypes,
		Prompted: true,
		Question: "What kind of HVAC service do you need? For example AC repair, furnace maintenance, installation, or cleaning.",
		Hint:     "one of: AC repair, furnace maintenance, installation, cleaning, ventilation maintenance, other",
	},
	{
		Name: "problem_summary", Label: "Problem Summary",
		Tier: TierCritical, Required: true, Type: TypeString,
		Prompted: true,
		Question: "Could you briefly describe the problem you're having?",
		Hint:     "a short description of the issue",
	},
	{
		Name: "contact_name", Label: "Contact Name",
		Tier: TierCritical, Required: true, Type: TypeString,
		Prompted: true,
		Question: "May I have your name for the booking?",
		Hint:     "your full name",
	},
	{
		Name: "contact_phone", Label: "Phone",
		Tier: TierCritical, Required: true, Type: TypeString,
		Prompted: true,
		Question: "What phone number should our technician use to reach you?",
		Hint:     "a phone number",
	},
	{
		Name: "property_type", Label: "Property Type",
		Tier: TierHigh, Required: true, Type: TypeEnum, Enum: PropertyTypes,
		Prompted: true,
		Question: "What type of property is this? Apartment, detached house, townhouse, or commercial?",
		Hint:     "one of: apartment, detached house, townhouse, commercial, other",
	},
	{
		Name: "address", Label: "Street Address",
		Tier: TierHigh, Required: true, Type: TypeString,
		Prompted: true,
		Question: "What is the street address where the service is needed?",
		Hint:     "street number and name",
	},
	{
		Name: "city", Label: "City",
		Tier: TierHigh, Required: true, Type: TypeString,
		Prompted: true,
		Question: "Which city is that in?",
		Hint:     "city name",
	},
	{
		Name: "province", Label: "Province",
		Tier: TierHigh, Required: true, Type: TypeString,
		Prompted: true,
		Question: "And which province or state?",
		Hint:     "province or state",
	},
	{
		Name: "preferred_timeslots", Label: "Preferred Time",
		Tier: TierMedium, Required: false, Type: TypeStringList,
		Prompted: true,
		Question: "When would you prefer the technician to come? You can give more than one option.",
		Hint:     "one or more time windows, e.g. \"tomorrow morning\"",
	},
	{
		Name: "severity", Label: "Severity",
		Tier: TierMedium, Required: false, Type: TypeEnum, Enum: SeverityLevels,
		Prompted: true,
		Question: "How urgent is this? Critical, high, medium, or low?",
		Hint:     "one of: critical, high, medium, low",
	},
	{
		Name: "equipment_brand", Label: "Equipment Brand",
		Tier: TierLow, Required: false, Type: TypeString,
		Prompted: true,
		Question: "Do you know the brand of the equipment? You can say \"skip\" if not.",
		Hint:     "brand name, or \"skip\"",
	},
	{
		Name: "access_notes", Label: "Access Notes",
		Tier: TierLow, Required: false, Type: TypeString,
		Prompted: true,
		Question: "Any access instructions for the technician, like a gate code or parking? Feel free to say \"skip\".",
		Hint:     "access instructions, or \"skip\"",
	},
	{
		Name: "constraints", Label: "Special Requirements",
		Tier: TierLow, Required: false, Type: TypeStringList,
		Prompted: true,
		Question: "Any special requirements or constraints we should know about? \"skip\" is fine.",
		Hint:     "special requirements, or \"skip\"",
	},
	// Captured when volunteered but never asked for.
	{
		Name: "postal_code", Label: "Postal Code",
		Tier: TierLow, Required: false, Type: TypeString,
	},
	{
		Name: "contact_email", Label: "Email",
		Tier: TierLow, Required: false, Type: TypeString,
	},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// ByName returns the schema entry for the given field name.
func ByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// InTier returns all fields of the given tier in declaration order.
func InTier(t Tier) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Tier == t {
			out = append(out, f)
		}
	}
	return out
}

// PromptedInTier returns the askable fields of the given tier in
// declaration order.
func PromptedInTier(t Tier) []Field {
	var out []Field
	for _, f := range InTier(t) {
		if f.Prompted {
			out = append(out, f)
		}
	}
	return out
}

// ServiceTypeLabel maps a service_type value to its display label.
func ServiceTypeLabel(v string) string {
	switch v {
	case "ac_repair":
		return "AC Repair"
	case "furnace_maintenance":
		return "Furnace Maintenance"
	case "installation":
		return "Equipment Installation"
	case "cleaning":
		return "Cleaning Service"
	case "ventilation_maintenance":
		return "Ventilation System Maintenance"
	case "other":
		return "Other Service"
	default:
		return v
	}
}

// PropertyTypeLabel maps a property_type value to its display label.
func PropertyTypeLabel(v string) string {
	switch v {
	case "apartment":
		return "Apartment"
	case "detached_house":
		return "Detached House"
	case "townhouse":
		return "Townhouse"
	case "commercial":
		return "Commercial Building"
	case "other":
		return "Other"
	default:
		return v
	}
}
