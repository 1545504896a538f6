// Package transcript turns the ordered token log (plus the non-final
// overlay) into renderable paragraph segments, and paginates the flattened
// text for scrollback.
package transcript

import (
	"strconv"
	"strings"
	"unicode"

	"parley/session"
)

type Kind int

const (
	// KindSpeakerLabel opens a paragraph with the speaker's display label.
	KindSpeakerLabel Kind = iota
	KindOriginal
	KindTranslation
)

// Segment is one renderable run of text. Segments are regenerated on every
// render pass and never cached: the non-final overlay changes between calls,
// and a provisional segment is replaced once its tokens finalize.
type Segment struct {
	Kind     Kind
	Speaker  *int
	Text     string
	Language string
	IsFinal  bool
}

// Assembler pairs original-text runs with their translations, one paragraph
// per speaker turn. Label resolves a speaker id to its display label.
type Assembler struct {
	Target string
	Label  func(id int) string
}

func (a *Assembler) label(id int) string {
	if a.Label != nil {
		return a.Label(id)
	}
	return "Speaker " + strconv.Itoa(id)
}

// Assemble runs the single stateful pass over finalized tokens followed by
// the pending overlay, in arrival order.
func (a *Assembler) Assemble(tokens []session.Token) []Segment {
	var (
		out            []Segment
		currentSpeaker *int
		originalBuf    strings.Builder
		translationBuf strings.Builder
		currentLang    string
		bufFinal       = true
	)

	flush := func() {
		if originalBuf.Len() == 0 && translationBuf.Len() == 0 {
			return
		}
		if originalBuf.Len() > 0 {
			out = append(out, Segment{
				Kind:     KindOriginal,
				Speaker:  currentSpeaker,
				Text:     originalBuf.String(),
				Language: currentLang,
				IsFinal:  bufFinal,
			})
		}
		if translationBuf.Len() > 0 {
			out = append(out, Segment{
				Kind:     KindTranslation,
				Speaker:  currentSpeaker,
				Text:     strings.TrimSpace(translationBuf.String()),
				Language: currentLang,
				IsFinal:  bufFinal,
			})
		}
		originalBuf.Reset()
		translationBuf.Reset()
	}

	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}
		// One-way translation artifact: never surface a translation that
		// targets the language it came from.
		if tok.DroppedForTarget(a.Target) {
			continue
		}

		text := tok.Text

		if tok.Speaker != nil && (currentSpeaker == nil || *tok.Speaker != *currentSpeaker) {
			flush()
			bufFinal = true
			sp := *tok.Speaker
			currentSpeaker = &sp
			currentLang = tok.Language
			out = append(out, Segment{
				Kind:    KindSpeakerLabel,
				Speaker: currentSpeaker,
				Text:    a.label(sp),
				IsFinal: true,
			})
			text = strings.TrimLeftFunc(text, unicode.IsSpace)
		}

		if tok.IsTranslation() {
			translationBuf.WriteString(text)
		} else {
			// Original text over a pending translation means the translated
			// phrase is complete: flush the pair before this token's
			// finality can taint it.
			if translationBuf.Len() > 0 {
				flush()
				bufFinal = true
			}
			originalBuf.WriteString(text)
			currentLang = tok.Language
		}

		if !tok.IsFinal {
			bufFinal = false
		}
	}

	flush()
	return out
}

// PlainText renders segments as paragraphs with parenthetical translations,
// used for the scrollback view and the .txt segment artifact.
func PlainText(segs []Segment) string {
	var b strings.Builder
	first := true
	for _, seg := range segs {
		switch seg.Kind {
		case KindSpeakerLabel:
			if !first {
				b.WriteString("\n\n")
			}
			b.WriteString(seg.Text)
			b.WriteString(": ")
		case KindOriginal:
			b.WriteString(seg.Text)
		case KindTranslation:
			b.WriteString(" (")
			b.WriteString(seg.Text)
			b.WriteString(")")
		}
		first = false
	}
	return b.String()
}
