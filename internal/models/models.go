package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RestorationOption is one of the fixed restoration modes sent to the model as a prompt hint
type RestorationOption string

const (
	QuickRestore    RestorationOption = "quick"
	FullDetail      RestorationOption = "full-detail"
	Colorize        RestorationOption = "colorize"
	ScratchRemoval  RestorationOption = "scratch-removal"
	FaceEnhancement RestorationOption = "face-enhancement"
)

// OptionInfo describes a restoration option for the UI catalog
type OptionInfo struct {
	ID          RestorationOption `json:"id"`
	Label       string            `json:"label"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
}

var restorationOptions = []OptionInfo{
	{ID: QuickRestore, Label: "Quick Restore", Title: "Quick Restore", Description: "One-click fast enhancement"},
	{ID: FullDetail, Label: "Full Detail Restore", Title: "Full Detail Restore", Description: "High-quality advanced restoration"},
	{ID: Colorize, Label: "Black & White to Color", Title: "Colorize", Description: "AI colorization for B&W photos"},
	{ID: ScratchRemoval, Label: "Scratch & Damage Removal", Title: "Damage Removal", Description: "Fix scratches, tears, and stains"},
	{ID: FaceEnhancement, Label: "Portrait & Face Enhancement", Title: "Face Enhancement", Description: "Improve facial details & clarity"},
}

// RestorationOptions returns the option catalog in display order
func RestorationOptions() []OptionInfo {
	out := make([]OptionInfo, len(restorationOptions))
	copy(out, restorationOptions)
	return out
}

// Label returns the name used for the option in prompts
func (o RestorationOption) Label() string {
	for _, info := range restorationOptions {
		if info.ID == o {
			return info.Label
		}
	}
	return string(o)
}

func (o RestorationOption) Valid() bool {
	for _, info := range restorationOptions {
		if info.ID == o {
			return true
		}
	}
	return false
}

// ParseRestorationOption accepts an option id or its label, case-insensitively
func ParseRestorationOption(s string) (RestorationOption, error) {
	s = strings.TrimSpace(s)
	for _, info := range restorationOptions {
		if strings.EqualFold(s, string(info.ID)) || strings.EqualFold(s, info.Label) || strings.EqualFold(s, info.Title) {
			return info.ID, nil
		}
	}
	return "", fmt.Errorf("unknown restoration option %q", s)
}

func (o *RestorationOption) UnmarshalText(text []byte) error {
	parsed, err := ParseRestorationOption(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Gender of the photo's subject
type Gender string

const (
	GenderUnspecified Gender = "unspecified"
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

var genderLabels = map[Gender]string{
	GenderUnspecified: "Not Specified",
	GenderMale:        "Male",
	GenderFemale:      "Female",
}

// Genders returns every gender value in display order
func Genders() []Gender {
	return []Gender{GenderUnspecified, GenderMale, GenderFemale}
}

func (g Gender) Label() string {
	if label, ok := genderLabels[g]; ok {
		return label
	}
	return string(g)
}

func ParseGender(s string) (Gender, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return GenderUnspecified, nil
	}
	for g, label := range genderLabels {
		if strings.EqualFold(s, string(g)) || strings.EqualFold(s, label) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Ethnicity of the photo's subject
type Ethnicity string

const (
	EthnicityUnspecified   Ethnicity = "unspecified"
	EthnicityAsian         Ethnicity = "asian"
	EthnicityCaucasian     Ethnicity = "caucasian"
	EthnicityAfrican       Ethnicity = "african"
	EthnicityHispanic      Ethnicity = "hispanic"
	EthnicityMiddleEastern Ethnicity = "middle-eastern"
	EthnicityOther         Ethnicity = "other"
)

var ethnicities = []struct {
	value Ethnicity
	label string
}{
	{EthnicityUnspecified, "Not Specified"},
	{EthnicityAsian, "Asian"},
	{EthnicityCaucasian, "Caucasian"},
	{EthnicityAfrican, "African"},
	{EthnicityHispanic, "Hispanic"},
	{EthnicityMiddleEastern, "Middle Eastern"},
	{EthnicityOther, "Other"},
}

// Ethnicities returns every ethnicity value in display order
func Ethnicities() []Ethnicity {
	out := make([]Ethnicity, 0, len(ethnicities))
	for _, e := range ethnicities {
		out = append(out, e.value)
	}
	return out
}

func (e Ethnicity) Label() string {
	for _, item := range ethnicities {
		if item.value == e {
			return item.label
		}
	}
	return string(e)
}

func ParseEthnicity(s string) (Ethnicity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EthnicityUnspecified, nil
	}
	for _, item := range ethnicities {
		if strings.EqualFold(s, string(item.value)) || strings.EqualFold(s, item.label) {
			return item.value, nil
		}
	}
	return "", fmt.Errorf("unknown ethnicity %q", s)
}

func (e *Ethnicity) UnmarshalText(text []byte) error {
	parsed, err := ParseEthnicity(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

const (
	MinAge     = 0
	MaxAge     = 100
	DefaultAge = 30
)

// Preferences are the user-adjustable hints folded into the restoration prompt.
// Values are immutable; use With to derive an updated copy.
type Preferences struct {
	Gender            Gender    `json:"gender" yaml:"gender"`
	Age               int       `json:"age" yaml:"age"`
	Ethnicity         Ethnicity `json:"ethnicity" yaml:"ethnicity"`
	RedrawHair        bool      `json:"redraw_hair" yaml:"redraw_hair"`
	RestoreClothing   bool      `json:"restore_clothing" yaml:"restore_clothing"`
	RemoveWatermark   bool      `json:"remove_watermark" yaml:"remove_watermark"`
	EnhanceBackground bool      `json:"enhance_background" yaml:"enhance_background"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Gender:    GenderUnspecified,
		Age:       DefaultAge,
		Ethnicity: EthnicityUnspecified,
	}
}

func (p Preferences) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("age %d out of range %d-%d", p.Age, MinAge, MaxAge)
	}
	return nil
}

// PreferencesUpdate holds the fields to change; nil fields are left as they are
type PreferencesUpdate struct {
	Gender            *Gender    `json:"gender,omitempty" yaml:"gender,omitempty"`
	Age               *int       `json:"age,omitempty" yaml:"age,omitempty"`
	Ethnicity         *Ethnicity `json:"ethnicity,omitempty" yaml:"ethnicity,omitempty"`
	RedrawHair        *bool      `json:"redraw_hair,omitempty" yaml:"redraw_hair,omitempty"`
	RestoreClothing   *bool      `json:"restore_clothing,omitempty" yaml:"restore_clothing,omitempty"`
	RemoveWatermark   *bool      `json:"remove_watermark,omitempty" yaml:"remove_watermark,omitempty"`
	EnhanceBackground *bool      `json:"enhance_background,omitempty" yaml:"enhance_background,omitempty"`
}

// With returns a copy of p with the update applied. Age is clamped to 0-100.
func (p Preferences) With(u PreferencesUpdate) Preferences {
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Age != nil {
		p.Age = clampAge(*u.Age)
	}
	if u.Ethnicity != nil {
		p.Ethnicity = *u.Ethnicity
	}
	if u.RedrawHair != nil {
		p.RedrawHair = *u.RedrawHair
	}
	if u.RestoreClothing != nil {
		p.RestoreClothing = *u.RestoreClothing
	}
	if u.RemoveWatermark != nil {
		p.RemoveWatermark = *u.RemoveWatermark
	}
	if u.EnhanceBackground != nil {
		p.EnhanceBackground = *u.EnhanceBackground
	}
	return p
}

// Update returns the update that sets every field to p's values
func (p Preferences) Update() PreferencesUpdate {
	return PreferencesUpdate{
		Gender:            &p.Gender,
		Age:               &p.Age,
		Ethnicity:         &p.Ethnicity,
		RedrawHair:        &p.RedrawHair,
		RestoreClothing:   &p.RestoreClothing,
		RemoveWatermark:   &p.RemoveWatermark,
		EnhanceBackground: &p.EnhanceBackground,
	}
}

// UnmarshalJSON fills unset fields from DefaultPreferences
func (p *Preferences) UnmarshalJSON(data []byte) error {
	type plain Preferences
	out := plain(DefaultPreferences())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = Preferences(out)
	return nil
}

func clampAge(age int) int {
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}
