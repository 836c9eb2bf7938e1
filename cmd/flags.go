package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// restoreFlags are the mode and preference flags shared by restore and prompt
type restoreFlags struct {
	mode      string
	prefsFile string

	gender            string
	age               int
	ethnicity         string
	redrawHair        bool
	restoreClothing   bool
	removeWatermark   bool
	enhanceBackground bool
}

func (f *restoreFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(models.QuickRestore), "Restoration mode (quick, full-detail, colorize, scratch-removal, face-enhancement)")
	cmd.Flags().StringVar(&f.prefsFile, "prefs", "", "YAML file with preference presets; flags override its values")
	cmd.Flags().StringVar(&f.gender, "gender", "", "Subject gender (male, female)")
	cmd.Flags().IntVar(&f.age, "age", models.DefaultAge, "Approximate subject age (0-100)")
	cmd.Flags().StringVar(&f.ethnicity, "ethnicity", "", "Subject ethnicity (asian, caucasian, african, hispanic, middle-eastern, other)")
	cmd.Flags().BoolVar(&f.redrawHair, "redraw-hair", false, "Redraw the subject's hair")
	cmd.Flags().BoolVar(&f.restoreClothing, "restore-clothing", false, "Restore clothing details")
	cmd.Flags().BoolVar(&f.removeWatermark, "remove-watermark", false, "Remove watermarks and text overlays")
	cmd.Flags().BoolVar(&f.enhanceBackground, "enhance-background", false, "Enhance the background")
}

func (f *restoreFlags) resolve(cmd *cobra.Command) (models.RestorationOption, models.Preferences, error) {
	option, err := models.ParseRestorationOption(f.mode)
	if err != nil {
		return "", models.Preferences{}, err
	}

	prefs := models.DefaultPreferences()
	if f.prefsFile != "" {
		data, err := os.ReadFile(f.prefsFile)
		if err != nil {
			return "", prefs, fmt.Errorf("failed to read preferences: %w", err)
		}
		if err := yaml.Unmarshal(data, &prefs); err != nil {
			return "", prefs, fmt.Errorf("failed to parse preferences: %w", err)
		}
	}

	var update models.PreferencesUpdate
	flags := cmd.Flags()
	if flags.Changed("gender") {
		g, err := models.ParseGender(f.gender)
		if err != nil {
			return "", prefs, err
		}
		update.Gender = &g
	}
	if flags.Changed("age") {
		update.Age = &f.age
	}
	if flags.Changed("ethnicity") {
		e, err := models.ParseEthnicity(f.ethnicity)
		if err != nil {
			return "", prefs, err
		}
		update.Ethnicity = &e
	}
	if flags.Changed("redraw-hair") {
		update.RedrawHair = &f.redrawHair
	}
	if flags.Changed("restore-clothing") {
		update.RestoreClothing = &f.restoreClothing
	}
	if flags.Changed("remove-watermark") {
		update.RemoveWatermark = &f.removeWatermark
	}
	if flags.Changed("enhance-background") {
		update.EnhanceBackground = &f.enhanceBackground
	}

	prefs = prefs.With(update)
	if err := prefs.Validate(); err != nil {
		return "", prefs, err
	}
	return option, prefs, nil
}
