package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"parley/audio"
	"parley/config"
	"parley/encoder"
	"parley/log"
	"parley/session"
	"parley/shutdown"
	"parley/stream"
)

const apiKeyEnv = "SONIOX_API_KEY"

// closeSendGrace bounds how long shutdown waits for the server to flush
// pending finalizations after the last audio frame.
const closeSendGrace = 3 * time.Second

func main() {
	sessionFlag := flag.String("session", "default", "Conversation name to create or resume")
	configFlag := flag.String("config", "", "Path to TOML config file")
	targetFlag := flag.String("target", "", "Override translation target language")
	sourcesFlag := flag.String("sources", "", "Override source language hints (comma-separated)")
	contextFlag := flag.String("context", "", "Override recognition context hint")
	deviceFlag := flag.String("device", "", "Use capture device matching this name")
	setupFlag := flag.Bool("setup", false, "Interactively select the capture device")
	listFlag := flag.Bool("list-devices", false, "List capture devices and exit")
	wavFlag := flag.String("wav", "", "Feed a WAV file instead of the microphone")
	logPathFlag := flag.String("logpath", "", "Log directory (default: OS-specific location)")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	cfg := config.Default()
	if *configFlag != "" {
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *targetFlag != "" {
		cfg.Languages.Target = *targetFlag
	}
	if *sourcesFlag != "" {
		cfg.Languages.Sources = strings.Split(*sourcesFlag, ",")
	}
	if *contextFlag != "" {
		cfg.Stream.Context = *contextFlag
	}

	audioCtx, err := newAudioContext(*wavFlag)
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	if *listFlag {
		devices, err := audioCtx.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, d := range devices {
			marker := " "
			if audio.IsBluetooth(d.Name) {
				marker = "⚠"
			}
			fmt.Printf("%s %s\n", marker, d.Name)
		}
		return
	}

	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: %s is not set\n", apiKeyEnv)
		os.Exit(1)
	}

	var device *audio.DeviceInfo
	switch {
	case *deviceFlag != "":
		device, err = audio.FindDevice(audioCtx, *deviceFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *setupFlag:
		device, err = audio.SelectDevice(audioCtx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "Falling back to default device")
			device = nil
		}
	}

	if device != nil {
		log.Info("capture_device: " + device.Name)
	}

	baseDir := cfg.Session.BaseDir
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	langs := session.Languages{
		Target:    cfg.Languages.Target,
		Sources:   cfg.Languages.Sources,
		Primary:   cfg.Languages.ReferencePrimary,
		Secondary: cfg.Languages.ReferenceSecondary,
	}
	sess, err := session.Open(*sessionFlag, baseDir, langs)
	if err != nil {
		log.Errorf("session open error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if info, resumed := sess.Resume(); resumed {
		fmt.Printf("Resuming %q: %d segments, %d tokens, %d speakers\n",
			sess.Name, info.Segments, info.Tokens, info.Speakers)
	}
	log.SessionStart(sess.Name, sess.WasResumed(), sess.TokenCount())

	capture, err := audioCtx.NewCapture(device, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := stream.Dial(ctx, cfg.Stream.URL, stream.StartRequest{
		APIKey:                       apiKey,
		Model:                        cfg.Stream.Model,
		AudioFormat:                  "pcm_s16le",
		SampleRate:                   encoder.SampleRate,
		NumChannels:                  encoder.Channels,
		LanguageHints:                cfg.Languages.Sources,
		EnableLanguageIdentification: true,
		EnableSpeakerDiarization:     true,
		EnableEndpointDetection:      true,
		Context:                      cfg.Stream.Context,
		Translation: &stream.Translation{
			Type:           "one_way",
			TargetLanguage: cfg.Languages.Target,
		},
	})
	if err != nil {
		log.Errorf("stream dial error: %v", err)
		fmt.Fprintf(os.Stderr, "Error connecting to recognition service: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// Audio producer: the capture callback buffers locally and a sender
	// goroutine ships frames, so a slow socket never stalls the device.
	frames := make(chan []byte, 64)
	capture.SetCallback(func(data []byte, _ uint32) {
		pcm := make([]byte, len(data))
		copy(pcm, data)
		sess.AddAudioFrame(pcm)
		select {
		case frames <- pcm:
		default:
			// Socket is far behind; the frame stays in the session buffer.
		}
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case pcm := <-frames:
				if err := client.Send(pcm); err != nil {
					log.Errorf("audio send error: %v", err)
					return
				}
			}
		}
	}()

	program := NewTUIProgram(sess, cfg)

	sigCh := make(chan os.Signal, 1)
	shutdown.Notify(sigCh)
	go func() {
		<-sigCh
		program.Quit()
	}()

	receiverDone := make(chan error, 1)
	go func() {
		err := runReceiver(ctx, client, sess)
		receiverDone <- err
		if err != nil && ctx.Err() == nil {
			log.Errorf("receiver error: %v", err)
		}
		program.Quit()
	}()

	if err := capture.Start(); err != nil {
		log.Errorf("capture start error: %v", err)
		fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
		os.Exit(1)
	}

	if _, err := program.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
	}

	// Shutdown: stop the mic, let the server flush pending finalizations,
	// then checkpoint whatever we have.
	capture.Stop()
	capture.ClearCallback()
	if err := client.CloseSend(); err == nil {
		select {
		case <-receiverDone:
		case <-time.After(closeSendGrace):
		}
	}
	cancel()

	if sess.TokenCount() > 0 {
		if _, err := saveSegment(sess); err != nil {
			log.Errorf("final segment save failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: final save failed: %v\n", err)
		}
	} else if err := sess.SaveState(); err != nil {
		log.Errorf("final state save failed: %v", err)
	}
	log.SessionEnd(sess.Name, sess.TokenCount(), sess.SegmentCount())
}

func newAudioContext(wavPath string) (audio.Context, error) {
	if wavPath != "" {
		return audio.NewFakeContext(wavPath)
	}
	return audio.NewContext()
}
