package prompt

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/restorer/internal/models"
)

func TestBuild(t *testing.T) {
	const header = "You are an expert AI photo restoration artist. Restore this old photograph using the '%s' method. Apply the following specific enhancements based on user input:\n"

	tests := []struct {
		name     string
		option   models.RestorationOption
		prefs    models.Preferences
		expected string
	}{
		{
			name:   "defaults only emit age",
			option: models.QuickRestore,
			prefs:  models.DefaultPreferences(),
			expected: "You are an expert AI photo restoration artist. Restore this old photograph using the 'Quick Restore' method. Apply the following specific enhancements based on user input:\n" +
				"- Subject's approximate age is 30.\n" +
				"\nThe final output must be a high-fidelity, professional-grade restored image. Do not add any text or artifacts to the image. Only return the restored image.",
		},
		{
			name:   "every preference set",
			option: models.Colorize,
			prefs: models.Preferences{
				Gender:            models.GenderFemale,
				Age:               45,
				Ethnicity:         models.EthnicityMiddleEastern,
				RedrawHair:        true,
				RestoreClothing:   true,
				RemoveWatermark:   true,
				EnhanceBackground: true,
			},
			expected: "You are an expert AI photo restoration artist. Restore this old photograph using the 'Black & White to Color' method. Apply the following specific enhancements based on user input:\n" +
				"- Subject's gender is identified as Female.\n" +
				"- Subject's approximate age is 45.\n" +
				"- Subject's ethnicity is identified as Middle Eastern.\n" +
				"- Redraw and add fine details to the hair.\n" +
				"- Restore and enhance the details of the clothing, preserving the original style.\n" +
				"- Carefully remove any watermarks, signatures, or text overlays from the image.\n" +
				"- Enhance the background details, improving clarity and focus where appropriate.\n" +
				"\nThe final output must be a high-fidelity, professional-grade restored image. Do not add any text or artifacts to the image. Only return the restored image.",
		},
		{
			name:   "watermark only keeps order",
			option: models.ScratchRemoval,
			prefs: models.Preferences{
				Gender:          models.GenderMale,
				Age:             0,
				Ethnicity:       models.EthnicityUnspecified,
				RemoveWatermark: true,
			},
			expected: "You are an expert AI photo restoration artist. Restore this old photograph using the 'Scratch & Damage Removal' method. Apply the following specific enhancements based on user input:\n" +
				"- Subject's gender is identified as Male.\n" +
				"- Subject's approximate age is 0.\n" +
				"- Carefully remove any watermarks, signatures, or text overlays from the image.\n" +
				"\nThe final output must be a high-fidelity, professional-grade restored image. Do not add any text or artifacts to the image. Only return the restored image.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Build(tt.option, tt.prefs)
			if result != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, result)
			}
			if !strings.HasPrefix(result, strings.Replace(header, "%s", tt.option.Label(), 1)) {
				t.Errorf("Missing header for %s", tt.option)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	prefs := models.DefaultPreferences()
	prefs.RedrawHair = true

	first := Build(models.FaceEnhancement, prefs)
	for i := 0; i < 10; i++ {
		if got := Build(models.FaceEnhancement, prefs); got != first {
			t.Fatalf("Build returned different output on call %d", i)
		}
	}
}

func TestBuildOmitsUnspecifiedLines(t *testing.T) {
	result := Build(models.FullDetail, models.DefaultPreferences())

	for _, line := range []string{"gender is identified", "ethnicity is identified", "hair", "clothing", "watermarks", "background"} {
		if strings.Contains(result, line) {
			t.Errorf("Expected %q to be omitted, got:\n%s", line, result)
		}
	}
}
