package dtp

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire frames are a flat sequence of length-delimited parts:
// [topic,] header, body. Each part is prefixed with a uvarint length.
// 请求帧为两段（header, body），订阅通道上的回报帧为三段（topic 在前）。

// EncodeFrame concatenates parts into one length-delimited frame.
func EncodeFrame(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += protowire.SizeBytes(len(p))
	}
	frame := make([]byte, 0, size)
	for _, p := range parts {
		frame = protowire.AppendBytes(frame, p)
	}
	return frame
}

// DecodeFrame splits a frame back into its parts.
func DecodeFrame(frame []byte) ([][]byte, error) {
	var parts [][]byte
	for len(frame) > 0 {
		p, n := protowire.ConsumeBytes(frame)
		if n < 0 {
			return nil, fmt.Errorf("dtp: malformed frame: %w", protowire.ParseError(n))
		}
		parts = append(parts, p)
		frame = frame[n:]
	}
	return parts, nil
}

// DecodeFrameN decodes a frame and checks the expected part count.
func DecodeFrameN(frame []byte, want int) ([][]byte, error) {
	parts, err := DecodeFrame(frame)
	if err != nil {
		return nil, err
	}
	if len(parts) != want {
		return nil, fmt.Errorf("dtp: frame has %d parts, want %d", len(parts), want)
	}
	return parts, nil
}
