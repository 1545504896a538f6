package session

// TranslationStatus mirrors the wire field: recognized text is "none",
// machine-translated text is "translation". A missing field decodes to ""
// and is treated as untranslated.
type TranslationStatus string

const (
	StatusNone        TranslationStatus = "none"
	StatusTranslation TranslationStatus = "translation"
)

// Token is one unit of recognized speech. Non-final tokens are revisable
// and live only in the pending overlay; once a token is finalized and
// stored, ResolvedLanguage is locked and the token is never mutated.
type Token struct {
	Text               string            `json:"text"`
	Speaker            *int              `json:"speaker,omitempty"`
	Language           string            `json:"language,omitempty"`
	LanguageConfidence float64           `json:"language_confidence"`
	IsFinal            bool              `json:"is_final"`
	TranslationStatus  TranslationStatus `json:"translation_status,omitempty"`
	SourceLanguage     string            `json:"source_language,omitempty"`

	// ResolvedLanguage is computed by ResolveLanguage before storage,
	// distinct from the raw detector output in Language.
	ResolvedLanguage string `json:"resolved_language,omitempty"`
}

func (t Token) IsTranslation() bool {
	return t.TranslationStatus == StatusTranslation
}

// DroppedForTarget reports whether the token is a translation that targets
// the language it came from. The one-way translator emits these for speech
// already in the target language; they are never surfaced or queried.
func (t Token) DroppedForTarget(target string) bool {
	return t.IsTranslation() && t.SourceLanguage == target
}
