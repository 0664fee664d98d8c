package audio

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/pion/rtp"
	"gopkg.in/hraban/opus.v2"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/tts"
)

// Opus framing at 48kHz mono: 20ms frames, 960 samples each.
const (
	opusSampleRate = 48000
	frameDuration  = 20 * time.Millisecond
	frameSamples   = 960
	payloadType    = 96
	maxPacketSize  = 1500
)

// ErrUnsupportedFormat is returned for clips the streamer cannot encode.
// Configure the TTS provider for PCM output when using the RTP sink.
var ErrUnsupportedFormat = errors.New("audio: clip format not PCM")

// Streamer plays clips by encoding them to Opus and pacing RTP packets
// over UDP, one frame every 20ms so the receiver's jitter buffer stays
// shallow.
type Streamer struct {
	conn    net.Conn
	encoder *opus.Encoder

	ssrc     uint32
	sequence uint16
	ts       uint32
}

// NewStreamer dials the playout endpoint (host:port UDP) and prepares an
// Opus encoder.
func NewStreamer(addr string) (*Streamer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("audio: dial %s: %w", addr, err)
	}

	encoder, err := opus.NewEncoder(opusSampleRate, 1, opus.AppVoIP)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("audio: create opus encoder: %w", err)
	}

	return &Streamer{
		conn:     conn,
		encoder:  encoder,
		ssrc:     rand.Uint32(),
		sequence: uint16(rand.Intn(1 << 16)),
	}, nil
}

// Play encodes the clip and streams it to completion. The clip must be
// PCM16; it is resampled to 48kHz before encoding.
func (s *Streamer) Play(ctx context.Context, clip *tts.Clip) error {
	switch clip.Format.Encoding {
	case tts.EncodingPCM16, tts.EncodingPCM24:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, clip.Format.Encoding)
	}

	samples := BytesToInt16(clip.Audio)
	samples = Resample(samples, clip.Format.SampleRate, opusSampleRate)

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	frame := make([]int16, frameSamples)
	packet := make([]byte, maxPacketSize)
	sent := 0

	for off := 0; off < len(samples); off += frameSamples {
		// Zero-pad the tail frame; Opus frames are fixed size.
		n := copy(frame, samples[off:])
		for i := n; i < frameSamples; i++ {
			frame[i] = 0
		}

		size, err := s.encoder.Encode(frame, packet)
		if err != nil {
			return fmt.Errorf("audio: opus encode: %w", err)
		}

		if err := s.send(packet[:size]); err != nil {
			return err
		}
		sent++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	log.Debug("audio: streamed clip", "frames", sent, "samples", len(samples))
	return nil
}

// send wraps one Opus frame in RTP and writes it to the socket.
func (s *Streamer) send(payload []byte) error {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    payloadType,
			SequenceNumber: s.sequence,
			Timestamp:      s.ts,
			SSRC:           s.ssrc,
		},
		Payload: payload,
	}
	s.sequence++
	s.ts += frameSamples

	raw, err := pkt.Marshal()
	if err != nil {
		return fmt.Errorf("audio: marshal rtp packet: %w", err)
	}
	if _, err := s.conn.Write(raw); err != nil {
		return fmt.Errorf("audio: write rtp packet: %w", err)
	}
	return nil
}

// Close releases the socket.
func (s *Streamer) Close() error {
	return s.conn.Close()
}
