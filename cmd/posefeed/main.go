// posefeed replays recorded landmark frames into a running coach service.
// Each input line is one JSON landmark payload; frames are paced at the
// given rate so replays behave like a live estimator.
//
// Usage:
//
//	posefeed -file workout.jsonl -url ws://localhost:8080/ws/pose -fps 30
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/protocol"
)

func main() {
	file := flag.String("file", "", "JSONL file of landmark payloads (default: stdin)")
	url := flag.String("url", "ws://localhost:8080/ws/pose", "Coach ingest WebSocket URL")
	fps := flag.Int("fps", 30, "Frames per second to replay at")
	loop := flag.Bool("loop", false, "Restart from the beginning at end of file")
	flag.Parse()

	log.Init("info")

	if err := run(*file, *url, *fps, *loop); err != nil {
		fmt.Fprintf(os.Stderr, "posefeed: %v\n", err)
		os.Exit(1)
	}
}

func run(file, url string, fps int, loop bool) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()
	log.Info("posefeed: connected", "url", url, "fps", fps)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var frameID uint64
	for {
		sent, err := replayOnce(conn, file, ticker, &frameID)
		if err != nil {
			return err
		}
		log.Info("posefeed: replay finished", "frames", sent)
		if !loop {
			return nil
		}
	}
}

// replayOnce streams the file (or stdin) once.
func replayOnce(conn *websocket.Conn, file string, ticker *time.Ticker, frameID *uint64) (int, error) {
	in := os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}

	sent := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var lm protocol.LandmarkData
		if err := json.Unmarshal(line, &lm); err != nil {
			log.Warn("posefeed: skipping malformed line", "error", err)
			continue
		}
		*frameID++
		lm.FrameID = *frameID

		msg, err := protocol.NewMessage(protocol.TypeLandmarks, &lm)
		if err != nil {
			return sent, err
		}
		data, err := msg.Bytes()
		if err != nil {
			return sent, err
		}

		<-ticker.C
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return sent, fmt.Errorf("write frame %d: %w", *frameID, err)
		}
		sent++
	}
	return sent, scanner.Err()
}
