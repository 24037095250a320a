package store

import (
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/pkg/term"
)

// Profile is a term.PreferenceProvider backed by a TOML profile file. A
// zero-value profile answers with sane defaults so ranking still works for
// users without one.
type Profile struct {
	mu      sync.RWMutex
	prefs   term.Preferences
	weights term.PersonalizationWeights
}

type profileFile struct {
	Preferences     term.Preferences            `toml:"preferences"`
	Personalization term.PersonalizationWeights `toml:"personalization"`
}

// NewProfile creates a provider with default preferences.
func NewProfile() *Profile {
	return &Profile{
		prefs: term.Preferences{
			DifficultyLevel: 0.5,
		},
		weights: term.PersonalizationWeights{
			CategoryPreference: 0.5,
			UsageFrequency:     0.5,
			RecentActivity:     0.5,
			LearningProgress:   0.5,
		},
	}
}

// LoadProfile reads a TOML profile from path. A missing file is not an
// error; defaults are kept.
func LoadProfile(path string) (*Profile, error) {
	p := NewProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No profile at %s, using defaults", path)
			return p, nil
		}
		return nil, err
	}
	var file profileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	p.prefs = file.Preferences
	p.prefs.DifficultyLevel = term.Clamp(p.prefs.DifficultyLevel, 0, 1)
	p.weights = file.Personalization
	p.weights.CategoryPreference = term.Clamp(p.weights.CategoryPreference, 0, 1)
	p.weights.UsageFrequency = term.Clamp(p.weights.UsageFrequency, 0, 1)
	p.weights.RecentActivity = term.Clamp(p.weights.RecentActivity, 0, 1)
	p.weights.LearningProgress = term.Clamp(p.weights.LearningProgress, 0, 1)
	return p, nil
}

// Preferences returns the user profile.
func (p *Profile) Preferences() (term.Preferences, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs, nil
}

// PersonalizationWeights returns the weight vector. The context argument is
// accepted for interface compatibility; the file-backed profile keeps one
// vector for all contexts.
func (p *Profile) PersonalizationWeights(_ *term.Context) (term.PersonalizationWeights, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.weights, nil
}

// SetPreferences replaces the profile, used by the server's config path.
func (p *Profile) SetPreferences(prefs term.Preferences) {
	p.mu.Lock()
	p.prefs = prefs
	p.mu.Unlock()
}

var _ term.PreferenceProvider = (*Profile)(nil)
