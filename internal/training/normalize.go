package training

import (
	"strings"

	"github.com/nurpe/carbon-valuation/internal/model"
)

type typeRule struct {
	pattern  string
	category model.ProjectType
}

// Evaluated in order: exact match over all rules first, then the first rule
// whose pattern is contained in the text.
var projectTypeRules = []typeRule{
	{"reforestation", model.ProjectTypeReforestation},
	{"afforestation", model.ProjectTypeReforestation},
	{"forest", model.ProjectTypeReforestation},
	{"tree planting", model.ProjectTypeReforestation},
	{"conservation", model.ProjectTypeConservation},
	{"avoided deforestation", model.ProjectTypeConservation},
	{"forest conservation", model.ProjectTypeConservation},
	{"protection", model.ProjectTypeConservation},
	{"renewable", model.ProjectTypeRenewableEnergy},
	{"renewable energy", model.ProjectTypeRenewableEnergy},
	{"solar", model.ProjectTypeRenewableEnergy},
	{"wind", model.ProjectTypeRenewableEnergy},
	{"hydro", model.ProjectTypeRenewableEnergy},
	{"methane", model.ProjectTypeMethaneCapture},
	{"methane capture", model.ProjectTypeMethaneCapture},
	{"landfill gas", model.ProjectTypeMethaneCapture},
	{"soil", model.ProjectTypeSoilCarbon},
	{"soil carbon", model.ProjectTypeSoilCarbon},
	{"agricultural", model.ProjectTypeSoilCarbon},
	{"regenerative agriculture", model.ProjectTypeSoilCarbon},
}

// NormalizeProjectType maps free text onto a canonical category, "other" if none fits.
func NormalizeProjectType(raw string) model.ProjectType {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range model.KnownProjectTypes {
		if text == string(known) {
			return known
		}
	}
	for _, rule := range projectTypeRules {
		if text == rule.pattern {
			return rule.category
		}
	}
	for _, rule := range projectTypeRules {
		if strings.Contains(text, rule.pattern) {
			return rule.category
		}
	}
	return model.ProjectTypeOther
}
