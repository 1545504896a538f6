package main

import (
	"context"
	"strings"
	"testing"

	"parley/session"
	"parley/stream"
	"parley/transcript"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Open("recv", t.TempDir(), session.Languages{
		Target:    "en",
		Sources:   []string{"en", "zh"},
		Primary:   "en",
		Secondary: "zh",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func finalTok(speaker int, lang, text string) session.Token {
	return session.Token{
		Text: text, Speaker: &speaker, Language: lang,
		LanguageConfidence: 0.9, IsFinal: true,
	}
}

func TestRunReceiverStoresFinalAndPending(t *testing.T) {
	sess := newTestSession(t)
	src := &stream.FakeSource{Events: []stream.Event{
		{Tokens: []session.Token{
			finalTok(1, "en", "hello "),
			{Text: "wor", Language: "en", LanguageConfidence: 0.9},
		}},
		{Tokens: []session.Token{finalTok(1, "en", "world")}, Finished: true},
	}}

	if err := runReceiver(context.Background(), src, sess); err != nil {
		t.Fatalf("runReceiver: %v", err)
	}

	snap := sess.Snapshot()
	if len(snap.Tokens) != 2 {
		t.Fatalf("stored %d final tokens, want 2", len(snap.Tokens))
	}
	for _, tok := range snap.Tokens {
		if tok.ResolvedLanguage == "" {
			t.Errorf("final token %q missing resolved language", tok.Text)
		}
	}
	// The last event carried no partials: the overlay ends empty.
	if len(snap.Pending) != 0 {
		t.Errorf("pending overlay = %d tokens, want 0", len(snap.Pending))
	}
}

func TestRunReceiverPendingReplacedEachEvent(t *testing.T) {
	sess := newTestSession(t)
	src := &stream.FakeSource{Events: []stream.Event{
		{Tokens: []session.Token{
			{Text: "provisional one", Language: "en", LanguageConfidence: 0.9},
		}},
		{Tokens: []session.Token{
			{Text: "provisional two", Language: "en", LanguageConfidence: 0.9},
		}, Finished: true},
	}}

	if err := runReceiver(context.Background(), src, sess); err != nil {
		t.Fatal(err)
	}
	snap := sess.Snapshot()
	if len(snap.Pending) != 1 || snap.Pending[0].Text != "provisional two" {
		t.Errorf("pending = %+v, want the latest revision only", snap.Pending)
	}
	if len(snap.Tokens) != 0 {
		t.Error("non-final tokens must not enter the durable log")
	}
}

func TestRunReceiverBilingualExchange(t *testing.T) {
	sess := newTestSession(t)

	translation := finalTok(2, "en", "Hello")
	translation.TranslationStatus = session.StatusTranslation
	translation.SourceLanguage = "zh"

	src := &stream.FakeSource{Events: []stream.Event{
		{Tokens: []session.Token{
			finalTok(1, "en", "Hi there"),
			finalTok(2, "zh", "你好"),
			translation,
		}, Finished: true},
	}}

	if err := runReceiver(context.Background(), src, sess); err != nil {
		t.Fatalf("runReceiver: %v", err)
	}

	snap := sess.Snapshot()
	plain := transcript.PlainText(newAssembler(snap).Assemble(snap.Tokens))
	want := "Speaker 1: Hi there\n\nSpeaker 2: 你好 (Hello)"
	if plain != want {
		t.Errorf("transcript = %q, want %q", plain, want)
	}

	if p := sess.Profile(1); p.TotalSamples != 1 || p.LanguageCounts["en"] != 1 {
		t.Errorf("speaker 1 profile = %+v, want one en sample", p)
	}
	// Speaker 2 spoke once; the translation of that speech is machine
	// output and must not count as a second sample.
	if p := sess.Profile(2); p.TotalSamples != 1 || p.LanguageCounts["en"] != 0 {
		t.Errorf("speaker 2 profile = %+v, want one zh sample only", p)
	}
}

func TestRunReceiverStreamError(t *testing.T) {
	sess := newTestSession(t)
	src := &stream.FakeSource{Events: []stream.Event{
		{Tokens: []session.Token{finalTok(1, "en", "before")}},
		{ErrorCode: "rate_limited", ErrorMessage: "too many requests"},
	}}

	err := runReceiver(context.Background(), src, sess)
	if err == nil || !strings.Contains(err.Error(), "rate_limited") {
		t.Fatalf("err = %v, want stream error rate_limited", err)
	}
	// Tokens received before the failure stay.
	if sess.TokenCount() != 1 {
		t.Errorf("TokenCount = %d, want 1", sess.TokenCount())
	}
}

func TestRunReceiverEOF(t *testing.T) {
	sess := newTestSession(t)
	src := &stream.FakeSource{}
	if err := runReceiver(context.Background(), src, sess); err != nil {
		t.Fatalf("EOF should end the loop cleanly, got %v", err)
	}
}

func TestRunReceiverCancelled(t *testing.T) {
	sess := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &stream.FakeSource{Events: []stream.Event{{Finished: true}}}
	if err := runReceiver(ctx, src, sess); err == nil {
		t.Fatal("cancelled context should surface an error")
	}
}
