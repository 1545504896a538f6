package stream

import (
	"encoding/json"
	"testing"
)

func TestStartRequestMarshal(t *testing.T) {
	req := StartRequest{
		APIKey:                       "key",
		Model:                        "stt-rt-v3",
		AudioFormat:                  "pcm_s16le",
		SampleRate:                   16000,
		NumChannels:                  1,
		LanguageHints:                []string{"en", "zh"},
		EnableLanguageIdentification: true,
		EnableSpeakerDiarization:     true,
		EnableEndpointDetection:      true,
		Context:                      "Family conversation.",
		Translation:                  &Translation{Type: "one_way", TargetLanguage: "en"},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["audio_format"] != "pcm_s16le" {
		t.Errorf("audio_format = %v", m["audio_format"])
	}
	if m["sample_rate"] != float64(16000) {
		t.Errorf("sample_rate = %v", m["sample_rate"])
	}
	tr, ok := m["translation"].(map[string]any)
	if !ok || tr["type"] != "one_way" || tr["target_language"] != "en" {
		t.Errorf("translation = %v", m["translation"])
	}
}

func TestStartRequestOmitsEmptyOptionals(t *testing.T) {
	data, err := json.Marshal(StartRequest{Model: "stt-rt-v3"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"language_hints", "context", "translation"} {
		if _, present := m[key]; present {
			t.Errorf("%s should be omitted when unset", key)
		}
	}
}

func TestEventDecodeDefaults(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"tokens":[{"text":"hi","is_final":true}]}`), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Finished || ev.IsError() {
		t.Error("absent fields must decode to zero values")
	}
	if len(ev.Tokens) != 1 || ev.Tokens[0].Text != "hi" || !ev.Tokens[0].IsFinal {
		t.Errorf("tokens = %+v", ev.Tokens)
	}
}

func TestEventDecodeError(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"error_code":"unauthorized","error_message":"bad key"}`), &ev); err != nil {
		t.Fatal(err)
	}
	if !ev.IsError() || ev.ErrorCode != "unauthorized" || ev.ErrorMessage != "bad key" {
		t.Errorf("event = %+v", ev)
	}

	if err := json.Unmarshal([]byte(`{"error_code":null}`), &ev); err != nil {
		t.Fatalf("null error_code must decode cleanly: %v", err)
	}
}

func TestFakeSourceReplaysThenEOF(t *testing.T) {
	f := &FakeSource{Events: []Event{{Finished: false}, {Finished: true}}}
	if ev, err := f.Recv(); err != nil || ev.Finished {
		t.Fatalf("first recv: %+v, %v", ev, err)
	}
	if ev, err := f.Recv(); err != nil || !ev.Finished {
		t.Fatalf("second recv: %+v, %v", ev, err)
	}
	if _, err := f.Recv(); err == nil {
		t.Fatal("expected EOF after script ends")
	}
}
