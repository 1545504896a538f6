// Package stream speaks the realtime transcription websocket protocol:
// one JSON start request, then raw PCM frames up, token batches down.
package stream

import (
	"context"
	"encoding/json"

	"nhooyr.io/websocket"

	"parley/session"
)

// StartRequest is the configuration message sent immediately after the
// websocket opens, before any audio.
type StartRequest struct {
	APIKey                       string       `json:"api_key"`
	Model                        string       `json:"model"`
	AudioFormat                  string       `json:"audio_format"`
	SampleRate                   int          `json:"sample_rate"`
	NumChannels                  int          `json:"num_channels"`
	LanguageHints                []string     `json:"language_hints,omitempty"`
	EnableLanguageIdentification bool         `json:"enable_language_identification"`
	EnableSpeakerDiarization     bool         `json:"enable_speaker_diarization"`
	EnableEndpointDetection      bool         `json:"enable_endpoint_detection"`
	Context                      string       `json:"context,omitempty"`
	Translation                  *Translation `json:"translation,omitempty"`
}

type Translation struct {
	Type           string `json:"type"`
	TargetLanguage string `json:"target_language"`
}

// Event is one server message: a token batch, a stream-finished marker,
// or a protocol error. An absent error_code decodes to "".
type Event struct {
	Tokens       []session.Token `json:"tokens"`
	Finished     bool            `json:"finished"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

func (e Event) IsError() bool { return e.ErrorCode != "" }

// Source is what the receiver loop consumes. The websocket Client and the
// test fake both implement it.
type Source interface {
	Recv() (Event, error)
}

type Client struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

// Dial opens the websocket and sends the start request. The returned client
// is ready for Send/Recv.
func Dial(ctx context.Context, endpoint string, req StartRequest) (*Client, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	conn, _, err := websocket.Dial(streamCtx, endpoint, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	cfg, err := json.Marshal(req)
	if err != nil {
		cancel()
		conn.Close(websocket.StatusInternalError, "")
		return nil, err
	}
	if err := conn.Write(streamCtx, websocket.MessageText, cfg); err != nil {
		cancel()
		conn.Close(websocket.StatusInternalError, "")
		return nil, err
	}

	return &Client{conn: conn, ctx: streamCtx, cancel: cancel}, nil
}

// Send ships one PCM frame. Frames are raw pcm_s16le, no framing.
func (c *Client) Send(pcm []byte) error {
	return c.conn.Write(c.ctx, websocket.MessageBinary, pcm)
}

// CloseSend tells the server no more audio is coming; the server drains,
// finalizes pending tokens, and replies with a finished event.
func (c *Client) CloseSend() error {
	return c.conn.Write(c.ctx, websocket.MessageText, []byte(""))
}

func (c *Client) Recv() (Event, error) {
	_, data, err := c.conn.Read(c.ctx)
	if err != nil {
		return Event{}, err
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
