package session

// LanguageConfidenceThreshold is the detector confidence below which a
// token's stated language is distrusted in favor of speaker history.
const LanguageConfidenceThreshold = 0.5

const fallbackLanguage = "en"

// ResolveLanguage decides the effective language of a token, consulting and
// updating the speaker's profile. Low-confidence evidence is discarded, not
// counted. Translation tokens carry the translator's output language, not
// speech evidence, so they never touch the profile. Resolution is
// order-dependent per speaker: callers must resolve a speaker's tokens in
// arrival order.
func (s *Session) ResolveLanguage(tok Token) string {
	if tok.Speaker == nil || tok.IsTranslation() {
		if tok.Language != "" {
			return tok.Language
		}
		return fallbackLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profileLocked(*tok.Speaker)

	if tok.LanguageConfidence < LanguageConfidenceThreshold && p.LastLanguage != "" {
		return p.LastLanguage
	}
	if tok.Language != "" {
		p.AddSample(tok.Language)
		return tok.Language
	}
	if p.LastLanguage != "" {
		return p.LastLanguage
	}
	return fallbackLanguage
}
