package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"parley/log"
	"parley/session"
	"parley/stream"
)

// runReceiver drains recognition events into the session until the stream
// finishes, fails, or the context is cancelled. Final tokens get their
// language resolved and locked before they enter the durable log; non-final
// tokens only ever replace the pending overlay.
func runReceiver(ctx context.Context, src stream.Source, sess *session.Session) error {
	var stats log.ReceiverStats
	defer func() { log.Receiver(stats) }()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := src.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("receiving stream event: %w", err)
		}
		stats.Events++

		if ev.IsError() {
			log.StreamError(ev.ErrorCode, ev.ErrorMessage)
			return fmt.Errorf("stream error %s: %s", ev.ErrorCode, ev.ErrorMessage)
		}

		var pending []session.Token
		for _, tok := range ev.Tokens {
			// "<end>" is the endpoint-detection marker, not speech.
			if tok.Text == "" || tok.Text == "<end>" {
				continue
			}
			if !tok.IsFinal {
				pending = append(pending, tok)
				continue
			}
			tok.ResolvedLanguage = sess.ResolveLanguage(tok)
			sess.AddToken(tok)
			stats.FinalTokens++
		}
		stats.Partials += len(pending)
		sess.SetPending(pending)

		if ev.Finished {
			return nil
		}
	}
}
