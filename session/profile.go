package session

import (
	"fmt"

	"parley/config"
)

const (
	// Samples needed before a speaker gets a classification.
	minSamplesForLabel = 10
	// Share of reference-language samples that makes a speaker monolingual.
	monolingualRatio = 0.8
)

// Languages is the per-session language configuration. Primary and
// Secondary form the reference pair speakers are classified against;
// the ratio logic assumes exactly two.
type Languages struct {
	Target    string
	Sources   []string
	Primary   string
	Secondary string
}

// SpeakerProfile accumulates language evidence for one speaker id.
// Profiles are created lazily on first reference and never deleted.
type SpeakerProfile struct {
	SpeakerID      int            `json:"-"`
	LanguageCounts map[string]int `json:"language_counts"`
	LastLanguage   string         `json:"last_language,omitempty"`
	TotalSamples   int            `json:"total_samples"`
}

func newSpeakerProfile(id int) *SpeakerProfile {
	return &SpeakerProfile{
		SpeakerID:      id,
		LanguageCounts: make(map[string]int),
	}
}

// AddSample records one language observation.
func (p *SpeakerProfile) AddSample(language string) {
	p.LanguageCounts[language]++
	p.LastLanguage = language
	p.TotalSamples++
}

// DominantLanguage returns the most-seen language, or "" with no samples.
func (p *SpeakerProfile) DominantLanguage() string {
	best, bestCount := "", 0
	for lang, n := range p.LanguageCounts {
		if n > bestCount || (n == bestCount && lang < best) {
			best, bestCount = lang, n
		}
	}
	return best
}

// SpeakerType classifies the speaker against the reference pair.
// Returns "" until there is enough evidence.
func (p *SpeakerProfile) SpeakerType(langs Languages) string {
	if p.TotalSamples < minSamplesForLabel {
		return ""
	}

	primary := p.LanguageCounts[langs.Primary]
	secondary := p.LanguageCounts[langs.Secondary]
	total := primary + secondary
	if total == 0 {
		return ""
	}

	switch {
	case float64(primary)/float64(total) >= monolingualRatio:
		return config.LanguageName(langs.Primary)
	case float64(secondary)/float64(total) >= monolingualRatio:
		return config.LanguageName(langs.Secondary)
	default:
		return "Bilingual"
	}
}

// Label is the display name for the speaker, e.g. "Chinese Speaker 2" or
// just "Speaker 2" while unclassified.
func (p *SpeakerProfile) Label(langs Languages) string {
	if t := p.SpeakerType(langs); t != "" {
		return fmt.Sprintf("%s Speaker %d", t, p.SpeakerID)
	}
	return fmt.Sprintf("Speaker %d", p.SpeakerID)
}

// UsesSourceLanguage reports whether the speaker primarily uses the
// secondary reference language, alone or mixed.
func (p *SpeakerProfile) UsesSourceLanguage(langs Languages) bool {
	t := p.SpeakerType(langs)
	return t == config.LanguageName(langs.Secondary) || t == "Bilingual"
}
