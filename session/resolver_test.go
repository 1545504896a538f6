package session

import "testing"

func testLangs() Languages {
	return Languages{
		Target:    "en",
		Sources:   []string{"en", "zh"},
		Primary:   "en",
		Secondary: "zh",
	}
}

func testSession(t *testing.T) *Session {
	t.Helper()
	s, err := Open("test", t.TempDir(), testLangs())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func speakerTok(id int, lang string, conf float64) Token {
	return Token{Text: "x", Speaker: &id, Language: lang, LanguageConfidence: conf}
}

func TestResolveLanguageLowConfidenceUsesHistory(t *testing.T) {
	s := testSession(t)

	// Build history first.
	if got := s.ResolveLanguage(speakerTok(1, "zh", 0.9)); got != "zh" {
		t.Fatalf("confident token: got %q", got)
	}

	// Low confidence falls back to the speaker's last language and must not
	// pollute the profile counts.
	if got := s.ResolveLanguage(speakerTok(1, "he", 0.3)); got != "zh" {
		t.Errorf("low-confidence token: got %q, want zh", got)
	}
	p := s.Profile(1)
	if p.LanguageCounts["he"] != 0 {
		t.Error("low-confidence sample must be discarded, not counted")
	}
	if p.TotalSamples != 1 {
		t.Errorf("TotalSamples = %d, want 1", p.TotalSamples)
	}
}

func TestResolveLanguageLowConfidenceNoHistory(t *testing.T) {
	s := testSession(t)
	// No history yet: the stated language wins even at low confidence.
	if got := s.ResolveLanguage(speakerTok(2, "ca", 0.2)); got != "ca" {
		t.Errorf("got %q, want ca", got)
	}
	if s.Profile(2).LanguageCounts["ca"] != 1 {
		t.Error("stated language should be recorded when there is no history")
	}
}

func TestResolveLanguageEmptyLanguage(t *testing.T) {
	s := testSession(t)

	if got := s.ResolveLanguage(speakerTok(3, "", 0.9)); got != "en" {
		t.Errorf("no language, no history: got %q, want en", got)
	}

	s.ResolveLanguage(speakerTok(3, "zh", 0.9))
	if got := s.ResolveLanguage(speakerTok(3, "", 0.9)); got != "zh" {
		t.Errorf("no language with history: got %q, want zh", got)
	}
}

func TestResolveLanguageTranslationRecordsNothing(t *testing.T) {
	s := testSession(t)

	tr := speakerTok(2, "zh", 0.95)
	tr.TranslationStatus = StatusTranslation
	tr.SourceLanguage = "en"

	if got := s.ResolveLanguage(tr); got != "zh" {
		t.Errorf("translation token resolves to its stated language: got %q", got)
	}
	p := s.Profile(2)
	if p.TotalSamples != 0 {
		t.Errorf("TotalSamples = %d, want 0: translator output is not speech evidence", p.TotalSamples)
	}
	if p.LastLanguage != "" {
		t.Errorf("LastLanguage = %q, want unset", p.LastLanguage)
	}

	// Genuine speech afterwards still counts normally.
	if got := s.ResolveLanguage(speakerTok(2, "zh", 0.9)); got != "zh" {
		t.Errorf("got %q", got)
	}
	if p := s.Profile(2); p.TotalSamples != 1 {
		t.Errorf("TotalSamples = %d, want 1", p.TotalSamples)
	}
}

func TestResolveLanguageSpeakerless(t *testing.T) {
	s := testSession(t)
	if got := s.ResolveLanguage(Token{Text: "x", Language: "he"}); got != "he" {
		t.Errorf("got %q, want he", got)
	}
	if got := s.ResolveLanguage(Token{Text: "x"}); got != "en" {
		t.Errorf("got %q, want en", got)
	}
}
