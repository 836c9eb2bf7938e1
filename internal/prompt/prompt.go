package prompt

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/restorer/internal/models"
)

const closing = "\nThe final output must be a high-fidelity, professional-grade restored image. Do not add any text or artifacts to the image. Only return the restored image."

// Build returns the restoration instruction for the given option and preferences.
// Optional lines appear in a fixed order and only when their preference is set.
func Build(option models.RestorationOption, prefs models.Preferences) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert AI photo restoration artist. Restore this old photograph using the '%s' method. ", option.Label())
	b.WriteString("Apply the following specific enhancements based on user input:\n")

	if prefs.Gender != models.GenderUnspecified && prefs.Gender != "" {
		fmt.Fprintf(&b, "- Subject's gender is identified as %s.\n", prefs.Gender.Label())
	}
	fmt.Fprintf(&b, "- Subject's approximate age is %d.\n", prefs.Age)
	if prefs.Ethnicity != models.EthnicityUnspecified && prefs.Ethnicity != "" {
		fmt.Fprintf(&b, "- Subject's ethnicity is identified as %s.\n", prefs.Ethnicity.Label())
	}
	if prefs.RedrawHair {
		b.WriteString("- Redraw and add fine details to the hair.\n")
	}
	if prefs.RestoreClothing {
		b.WriteString("- Restore and enhance the details of the clothing, preserving the original style.\n")
	}
	if prefs.RemoveWatermark {
		b.WriteString("- Carefully remove any watermarks, signatures, or text overlays from the image.\n")
	}
	if prefs.EnhanceBackground {
		b.WriteString("- Enhance the background details, improving clarity and focus where appropriate.\n")
	}

	b.WriteString(closing)

	return b.String()
}
