// Package tags holds the static tag catalog and the canonicalizer built on
// top of it. The registry is constructed once at startup and injected into
// the services that need it.
package tags

import (
	"strings"

	"github.com/medbank-platform/question-engine/internal/models"
)

// Category is a filterable tag dimension exposed to callers. TOPIC tags are
// free-text references and have no category here.
type Category string

const (
	CategoryRotation   Category = "rotation"
	CategoryResource   Category = "resource"
	CategoryDiscipline Category = "discipline"
	CategorySystem     Category = "system"
	CategoryMode       Category = "mode"
)

// Categories lists all filterable categories in canonical order.
var Categories = []Category{
	CategoryRotation,
	CategoryResource,
	CategoryDiscipline,
	CategorySystem,
	CategoryMode,
}

// TagType maps a category to the tag type stored on question tags.
func (c Category) TagType() models.TagType {
	switch c {
	case CategoryRotation:
		return models.TagTypeRotation
	case CategoryResource:
		return models.TagTypeResource
	case CategoryDiscipline:
		return models.TagTypeSubject
	case CategorySystem:
		return models.TagTypeSystem
	case CategoryMode:
		return models.TagTypeMode
	default:
		return ""
	}
}

// CategoryForTagType is the inverse of Category.TagType. TOPIC has no
// category; the second return value is false for it and for unknown types.
func CategoryForTagType(t models.TagType) (Category, bool) {
	switch t {
	case models.TagTypeRotation:
		return CategoryRotation, true
	case models.TagTypeResource:
		return CategoryResource, true
	case models.TagTypeSubject:
		return CategoryDiscipline, true
	case models.TagTypeSystem:
		return CategorySystem, true
	case models.TagTypeMode:
		return CategoryMode, true
	default:
		return "", false
	}
}

// Option is one catalog entry: the canonical key, its display label, and any
// historical aliases that should resolve to the same key.
type Option struct {
	Key     string
	Label   string
	Aliases []string
}

var rotationOptions = []Option{
	// Year 4 rotations
	{Key: "im", Label: "Internal Medicine", Aliases: []string{"internal medicine", "im"}},
	{Key: "gs", Label: "General Surgery", Aliases: []string{"general surgery", "gs"}},
	{Key: "peds", Label: "Pediatrics", Aliases: []string{"pediatrics", "peds"}},
	{Key: "obgyn", Label: "Obstetrics and Gynaecology", Aliases: []string{"obstetrics and gynaecology", "ob-gyn", "obgyn"}},
	// Year 5 rotations
	{Key: "fm", Label: "Family Medicine", Aliases: []string{"family medicine", "fm"}},
	{Key: "psych", Label: "Psychiatry", Aliases: []string{"psychiatry", "psych"}},
	{Key: "gs2", Label: "General Surgery 2", Aliases: []string{"general surgery 2", "gs2"}},
	{Key: "im2", Label: "Internal Medicine 2", Aliases: []string{"internal medicine 2", "im2"}},
}

var resourceOptions = []Option{
	{Key: "uworld_s1", Label: "UWorld - Step 1", Aliases: []string{"uworld s1", "uworld step 1"}},
	{Key: "uworld_s2", Label: "UWorld - Step 2", Aliases: []string{"uworld s2", "uworld step 2"}},
	{Key: "amboss", Label: "Amboss"},
	{Key: "beyond", Label: "Boards & Beyond", Aliases: []string{"boards and beyond", "boards & beyond"}},
	{Key: "previouses", Label: "Previouses", Aliases: []string{"previouses"}},
}

var disciplineOptions = []Option{
	{Key: "anatomy", Label: "Anatomy"},
	{Key: "behavioral", Label: "Behavioral Science", Aliases: []string{"behavioral", "behavioral science"}},
	{Key: "biochem", Label: "Biochemistry", Aliases: []string{"biochemistry", "biochem"}},
	{Key: "biostat", Label: "Biostatistics", Aliases: []string{"biostat", "biostatistics"}},
	{Key: "development", Label: "Development, Growth, Milestones & Vaccination"},
	{Key: "embryology", Label: "Embryology"},
	{Key: "genetics", Label: "Genetics"},
	{Key: "histology", Label: "Histology"},
	{Key: "immunology", Label: "Immunology"},
	{Key: "micro", Label: "Microbiology", Aliases: []string{"microbiology", "micro"}},
	{Key: "neonatology", Label: "Neonatology"},
	{Key: "path", Label: "Pathology", Aliases: []string{"path", "pathology"}},
	{Key: "pathophys", Label: "Pathophysiology", Aliases: []string{"pathophysiology", "pathophys"}},
	{Key: "pharm", Label: "Pharmacology", Aliases: []string{"pharmacology", "pharm"}},
	{Key: "physio", Label: "Physiology", Aliases: []string{"physiology", "physio"}},
}

var systemOptions = []Option{
	{Key: "bio_general", Label: "Biochemistry (General Principles)", Aliases: []string{"biochemistry (general principles)"}},
	{Key: "gen_general", Label: "Genetics (General Principles)", Aliases: []string{"genetics (general principles)"}},
	{Key: "micro_general", Label: "Microbiology (General Principles)"},
	{Key: "path_general", Label: "Pathology (General Principles)"},
	{Key: "pharm_general", Label: "Pharmacology (General Principles)"},
	{Key: "biostat_epi", Label: "Biostatistics & Epidemiology", Aliases: []string{"biostatistics & epidemiology", "biostat epi"}},
	{Key: "poison_env", Label: "Poisoning & Environmental Exposure", Aliases: []string{"poisoning & environmental exposure", "poison env"}},
	{Key: "psych", Label: "Psychiatric / Behavioral & Substance Use Disorder", Aliases: []string{"psychiatric", "behavioral", "psych"}},
	{Key: "social", Label: "Social Sciences (Ethics / Legal / Professional)", Aliases: []string{"social sciences", "social"}},
	{Key: "misc", Label: "Miscellaneous (Multisystem)", Aliases: []string{"misc", "multisystem"}},
	{Key: "allergy_immuno", Label: "Allergy & Immunology", Aliases: []string{"allergy", "immunology"}},
	{Key: "cardio", Label: "Cardiovascular System", Aliases: []string{"cardiovascular", "cardio"}},
	{Key: "derm", Label: "Dermatology", Aliases: []string{"dermatology", "derm"}},
	{Key: "ent", Label: "Ear, Nose & Throat (ENT)", Aliases: []string{"ent", "ear nose throat"}},
	{Key: "endocrine", Label: "Endocrine, Diabetes & Metabolism", Aliases: []string{"endocrine", "endocrine diabetes metabolism"}},
	{Key: "female_repro", Label: "Female Reproductive System & Breast", Aliases: []string{"female reproductive", "female reproductive system", "breast"}},
	{Key: "gi", Label: "Gastrointestinal & Nutrition", Aliases: []string{"gi", "gastrointestinal"}},
	{Key: "heme_onc", Label: "Hematology & Oncology", Aliases: []string{"hematology", "oncology", "heme onc"}},
	{Key: "id", Label: "Infectious Diseases", Aliases: []string{"infectious diseases", "id"}},
	{Key: "male_repro", Label: "Male Reproductive System", Aliases: []string{"male reproductive", "male reproductive system"}},
	{Key: "neuro", Label: "Nervous System", Aliases: []string{"nervous system", "neuro"}},
	{Key: "ophtho", Label: "Ophthalmology", Aliases: []string{"ophthalmology", "ophtho"}},
	{Key: "pregnancy", Label: "Pregnancy, Childbirth & Puerperium", Aliases: []string{"pregnancy", "childbirth", "puerperium"}},
	{Key: "pulm", Label: "Pulmonary & Critical Care", Aliases: []string{"pulmonary", "critical care", "pulm"}},
	{Key: "renal", Label: "Renal, Urinary Systems & Electrolytes", Aliases: []string{"renal", "urinary systems", "electrolytes"}},
	{Key: "rheum", Label: "Rheumatology / Orthopedics & Sports", Aliases: []string{"rheumatology", "orthopedics", "sports", "rheum"}},
}

var modeOptions = []Option{
	{Key: "unused", Label: "Unused/Unanswered", Aliases: []string{"unused", "unanswered"}},
	{Key: "incorrect", Label: "Incorrect"},
	{Key: "omitted", Label: "Omitted"},
	{Key: "correct", Label: "Correct"},
	{Key: "marked", Label: "Marked"},
}

// DefaultOptions returns the built-in catalog tables keyed by category.
func DefaultOptions() map[Category][]Option {
	return map[Category][]Option{
		CategoryRotation:   rotationOptions,
		CategoryResource:   resourceOptions,
		CategoryDiscipline: disciplineOptions,
		CategorySystem:     systemOptions,
		CategoryMode:       modeOptions,
	}
}

// Registry resolves raw tag values to canonical keys. Lookups try, in order,
// the key, the display label, then each alias, all case-insensitively.
type Registry struct {
	options map[Category][]Option
	lookup  map[Category]map[string]Option
}

// NewRegistry builds a registry from explicit option tables. Tables are
// copied into the lookup index; mutating the input afterwards has no effect.
func NewRegistry(options map[Category][]Option) *Registry {
	lookup := make(map[Category]map[string]Option, len(options))
	for category, opts := range options {
		index := make(map[string]Option)
		for _, opt := range opts {
			index[strings.ToLower(opt.Key)] = opt
			index[strings.ToLower(opt.Label)] = opt
			for _, alias := range opt.Aliases {
				index[strings.ToLower(alias)] = opt
			}
		}
		lookup[category] = index
	}
	return &Registry{options: options, lookup: lookup}
}

// NewDefaultRegistry builds a registry over the built-in catalog.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultOptions())
}

// Canonicalize maps a raw tag value to its canonical key. Unknown values are
// returned trimmed rather than rejected, so forward-compatible tags survive
// canonicalization. Blank input yields "".
func (r *Registry) Canonicalize(category Category, rawValue string) string {
	trimmed := strings.TrimSpace(rawValue)
	if trimmed == "" {
		return ""
	}
	index, ok := r.lookup[category]
	if !ok {
		return trimmed
	}
	if opt, found := index[strings.ToLower(trimmed)]; found {
		return opt.Key
	}
	return trimmed
}

// Expand returns, for each input value, the canonical key plus its label and
// all aliases, unioned and de-duplicated in first-seen order. The result is
// used to build tolerant store filters that also match historical rows
// tagged with a label or alias instead of a key.
func (r *Registry) Expand(category Category, rawValues []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, dup := seen[value]; dup {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}

	for _, raw := range rawValues {
		add(raw)
	}

	index, ok := r.lookup[category]
	if !ok {
		return out
	}

	for _, raw := range rawValues {
		canonical := r.Canonicalize(category, raw)
		if canonical == "" {
			continue
		}
		add(canonical)
		if opt, found := index[strings.ToLower(canonical)]; found && strings.EqualFold(opt.Key, canonical) {
			add(opt.Label)
			for _, alias := range opt.Aliases {
				add(alias)
			}
		}
	}
	return out
}

// Keys lists the canonical keys of a category in catalog order.
func (r *Registry) Keys(category Category) []string {
	opts := r.options[category]
	keys := make([]string, 0, len(opts))
	for _, opt := range opts {
		keys = append(keys, opt.Key)
	}
	return keys
}

// Label returns the display label for a canonical key, or the key itself
// when it is not in the catalog.
func (r *Registry) Label(category Category, key string) string {
	index, ok := r.lookup[category]
	if !ok {
		return key
	}
	if opt, found := index[strings.ToLower(key)]; found {
		return opt.Label
	}
	return key
}

// RotationValues returns every known rotation identifier (keys, labels and
// aliases) lower-cased. The similarity engine uses this as the whitelist for
// resolving a question's rotation tag.
func (r *Registry) RotationValues() map[string]struct{} {
	values := make(map[string]struct{})
	for _, opt := range r.options[CategoryRotation] {
		values[strings.ToLower(opt.Key)] = struct{}{}
		values[strings.ToLower(opt.Label)] = struct{}{}
		for _, alias := range opt.Aliases {
			values[strings.ToLower(alias)] = struct{}{}
		}
	}
	return values
}
