// Command mqttcodec-fuzz feeds a byte corpus through the assembler in
// fixed-size chunks (the -chunk flag, 3 bytes by default) to exercise its suspend/resume path
// outside of a real network connection. Grounded in the one-binary-
// per-concern cmd/ convention of golang-io-mqtt (the teacher itself
// has no cmd/ directory of its own).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wiremq/codec/assembler"
	mqttcodec "github.com/wiremq/codec"
	"github.com/wiremq/codec/diag"
	"github.com/wiremq/codec/wire"
)

func main() {
	corpusPath := flag.String("corpus", "", "path to a file of raw MQTT control packet bytes (reads stdin if empty)")
	chunkSize := flag.Int("chunk", 3, "bytes fed into the assembler per Write call")
	version := flag.Int("version", int(wire.MQTT5), "protocol version to assume before the first CONNECT (3, 4, or 5)")
	flag.Parse()

	var data []byte
	var err error
	if *corpusPath == "" {
		data, err = readAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*corpusPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "mqttcodec-fuzz:", err)
		os.Exit(1)
	}

	logger := diag.NewColoredLogger(slog.LevelInfo, os.Stderr)
	a := assembler.New(
		assembler.WithLogger(logger),
		assembler.WithProtocolVersion(wire.ProtocolVersion(*version)),
	)

	decoded := 0
loop:
	for offset := 0; offset < len(data); {
		end := offset + *chunkSize
		if end > len(data) {
			end = len(data)
		}
		a.Write(data[offset:end])
		offset = end

		for {
			msg, err := a.Next()
			if err != nil {
				if errors.Is(err, mqttcodec.ErrTruncated) {
					break
				}
				logger.Warn("decode error, corpus abandoned", "error", err.Error())
				break loop
			}
			if msg == nil {
				break
			}
			decoded++
			fmt.Printf("%d: %s (v%d)\n", decoded, msg.Type(), msg.ProtocolVersion)
		}
	}

	fmt.Printf("decoded %d message(s) from %d byte(s)\n", decoded, len(data))
}

func readAll(f *os.File) ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
	}
}
