package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"parley/encoder"
	"parley/log"
)

const stateFileName = "session_state.json"

// Session owns the durable token log, the pending (non-final) overlay, the
// speaker profiles, and the raw audio buffer for one named conversation.
// All state is guarded by one mutex; the render path only ever reads a
// Snapshot, never the live containers.
type Session struct {
	Name  string
	Langs Languages

	dir       string
	statePath string

	mu           sync.Mutex
	finalTokens  []Token
	pending      []Token
	profiles     map[int]*SpeakerProfile
	segmentCount int
	audioFrames  [][]byte
	resumed      bool
}

// Snapshot is an immutable view for the render activity.
type Snapshot struct {
	Tokens  []Token
	Pending []Token
	Labels  map[int]string
	Target  string
}

// ResumeInfo describes previously persisted state picked up by Open.
type ResumeInfo struct {
	Segments int
	Tokens   int
	Speakers int
}

type profileState struct {
	LanguageCounts map[string]int `json:"language_counts"`
	LastLanguage   string         `json:"last_language,omitempty"`
	TotalSamples   int            `json:"total_samples"`
}

type sessionState struct {
	Name            string                  `json:"name"`
	Updated         time.Time               `json:"updated"`
	SegmentCount    int                     `json:"segment_count"`
	Tokens          []Token                 `json:"tokens"`
	SpeakerProfiles map[string]profileState `json:"speaker_profiles"`
}

// Open creates or resumes the named session under
// <baseDir>/conversations/<name>. A corrupt or unreadable state file is not
// an error: a session must always be startable, so it starts fresh.
func Open(name, baseDir string, langs Languages) (*Session, error) {
	dir := filepath.Join(baseDir, "conversations", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	s := &Session{
		Name:      name,
		Langs:     langs,
		dir:       dir,
		statePath: filepath.Join(dir, stateFileName),
		profiles:  make(map[int]*SpeakerProfile),
	}
	s.loadState()
	return s, nil
}

func (s *Session) loadState() {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		return
	}
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Warnf("ignoring corrupt session state: %v", err)
		return
	}

	s.segmentCount = state.SegmentCount
	s.finalTokens = state.Tokens
	for sid, ps := range state.SpeakerProfiles {
		var id int
		if _, err := fmt.Sscanf(sid, "%d", &id); err != nil {
			continue
		}
		p := newSpeakerProfile(id)
		for lang, n := range ps.LanguageCounts {
			p.LanguageCounts[lang] = n
		}
		p.LastLanguage = ps.LastLanguage
		p.TotalSamples = ps.TotalSamples
		s.profiles[id] = p
	}
	s.resumed = true
}

func (s *Session) Dir() string { return s.dir }

func (s *Session) WasResumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

func (s *Session) Resume() (ResumeInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.resumed {
		return ResumeInfo{}, false
	}
	return ResumeInfo{
		Segments: s.segmentCount,
		Tokens:   len(s.finalTokens),
		Speakers: len(s.profiles),
	}, true
}

// profileLocked returns the speaker's profile, creating it lazily.
// Caller holds s.mu.
func (s *Session) profileLocked(id int) *SpeakerProfile {
	p, ok := s.profiles[id]
	if !ok {
		p = newSpeakerProfile(id)
		s.profiles[id] = p
	}
	return p
}

// Profile returns a copy of the speaker's profile for inspection.
func (s *Session) Profile(id int) SpeakerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profileLocked(id)
	cp := SpeakerProfile{
		SpeakerID:      p.SpeakerID,
		LanguageCounts: make(map[string]int, len(p.LanguageCounts)),
		LastLanguage:   p.LastLanguage,
		TotalSamples:   p.TotalSamples,
	}
	for lang, n := range p.LanguageCounts {
		cp.LanguageCounts[lang] = n
	}
	return cp
}

// AddToken appends a finalized token to the log. Append-only during a run.
func (s *Session) AddToken(tok Token) {
	s.mu.Lock()
	s.finalTokens = append(s.finalTokens, tok)
	s.mu.Unlock()
}

// SetPending replaces the non-final overlay with the latest revision.
func (s *Session) SetPending(toks []Token) {
	cp := make([]Token, len(toks))
	copy(cp, toks)
	s.mu.Lock()
	s.pending = cp
	s.mu.Unlock()
}

// AddAudioFrame appends a captured frame. Cleared only by SaveSegment.
func (s *Session) AddAudioFrame(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.mu.Lock()
	s.audioFrames = append(s.audioFrames, cp)
	s.mu.Unlock()
}

func (s *Session) TokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.finalTokens)
}

func (s *Session) SegmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segmentCount
}

// Snapshot copies the token log, the pending overlay, and the current
// speaker labels for the render activity.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tokens:  make([]Token, len(s.finalTokens)),
		Pending: make([]Token, len(s.pending)),
		Labels:  make(map[int]string, len(s.profiles)),
		Target:  s.Langs.Target,
	}
	copy(snap.Tokens, s.finalTokens)
	copy(snap.Pending, s.pending)
	for id, p := range s.profiles {
		snap.Labels[id] = p.Label(s.Langs)
	}
	return snap
}

// TokensBySpeaker returns the finalized tokens attributed to one speaker.
func (s *Session) TokensBySpeaker(id int) []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Token
	for _, t := range s.finalTokens {
		if t.Speaker != nil && *t.Speaker == id {
			out = append(out, t)
		}
	}
	return out
}

// SourceLanguageTokens returns the finalized tokens in the given source
// language, excluding translations that target their own language.
func (s *Session) SourceLanguageTokens(lang string) []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Token
	for _, t := range s.finalTokens {
		if t.DroppedForTarget(s.Langs.Target) {
			continue
		}
		if t.Language == lang {
			out = append(out, t)
		}
	}
	return out
}

// SaveState writes the resumable checkpoint. Failures surface to the caller.
func (s *Session) SaveState() error {
	s.mu.Lock()
	state := sessionState{
		Name:            s.Name,
		Updated:         time.Now(),
		SegmentCount:    s.segmentCount,
		Tokens:          s.finalTokens,
		SpeakerProfiles: make(map[string]profileState, len(s.profiles)),
	}
	for id, p := range s.profiles {
		state.SpeakerProfiles[fmt.Sprintf("%d", id)] = profileState{
			LanguageCounts: p.LanguageCounts,
			LastLanguage:   p.LastLanguage,
			TotalSamples:   p.TotalSamples,
		}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	if err := os.WriteFile(s.statePath, data, 0644); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

type segmentProfile struct {
	Type             string         `json:"type,omitempty"`
	Label            string         `json:"label"`
	DominantLanguage string         `json:"dominant_language,omitempty"`
	LanguageCounts   map[string]int `json:"language_counts"`
}

type segmentFile struct {
	Session         string                     `json:"session"`
	Segment         int                        `json:"segment"`
	Saved           time.Time                  `json:"saved"`
	Tokens          []Token                    `json:"tokens"`
	SpeakerProfiles map[string]segmentProfile `json:"speaker_profiles"`
}

// SaveSegment writes a batch snapshot: structured transcript JSON, a plain
// text rendering produced by render, and the buffered audio as WAV with a
// best-effort FLAC re-encode. The audio buffer is cleared afterwards and
// the session state checkpoint is refreshed. Returns the JSON path.
func (s *Session) SaveSegment(render func([]Token) string) (string, error) {
	s.mu.Lock()
	s.segmentCount++
	base := fmt.Sprintf("segment_%03d_%s", s.segmentCount, time.Now().Format("20060102_150405"))

	seg := segmentFile{
		Session:         s.Name,
		Segment:         s.segmentCount,
		Saved:           time.Now(),
		Tokens:          s.finalTokens,
		SpeakerProfiles: make(map[string]segmentProfile, len(s.profiles)),
	}
	for id, p := range s.profiles {
		seg.SpeakerProfiles[fmt.Sprintf("%d", id)] = segmentProfile{
			Type:             p.SpeakerType(s.Langs),
			Label:            p.Label(s.Langs),
			DominantLanguage: p.DominantLanguage(),
			LanguageCounts:   p.LanguageCounts,
		}
	}
	tokens := make([]Token, len(s.finalTokens))
	copy(tokens, s.finalTokens)
	frames := s.audioFrames
	s.audioFrames = nil
	s.mu.Unlock()

	jsonPath := filepath.Join(s.dir, base+".json")
	data, err := json.MarshalIndent(seg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding segment: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing segment transcript: %w", err)
	}

	txtPath := filepath.Join(s.dir, base+".txt")
	if err := os.WriteFile(txtPath, []byte(render(tokens)), 0644); err != nil {
		return "", fmt.Errorf("writing segment text: %w", err)
	}

	if len(frames) > 0 {
		if err := s.saveAudio(base, frames); err != nil {
			return "", err
		}
	}

	if err := s.SaveState(); err != nil {
		return "", err
	}
	return jsonPath, nil
}

// saveAudio writes the frames as WAV and tries a FLAC re-encode. A failed
// re-encode keeps the WAV; only the container write itself is fatal.
func (s *Session) saveAudio(base string, frames [][]byte) error {
	var pcm []byte
	for _, f := range frames {
		pcm = append(pcm, f...)
	}

	wavPath := filepath.Join(s.dir, base+".wav")
	if err := encoder.WriteWAV(wavPath, pcm); err != nil {
		return fmt.Errorf("writing segment audio: %w", err)
	}

	if flacPath, err := encoder.ReencodeFLAC(wavPath); err != nil {
		log.Warnf("flac re-encode failed, keeping wav: %v", err)
	} else {
		log.Info("segment audio re-encoded: " + filepath.Base(flacPath))
	}
	return nil
}
