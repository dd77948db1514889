package tts

import (
	"bytes"
	"encoding/binary"
)

// Gemini live audio arrives as raw 16-bit mono PCM at 24 kHz.
const (
	pcmSampleRateHz  = 24000
	pcmChannels      = 1
	pcmBitsPerSample = 16
)

// pcmToWav wraps raw PCM in a RIFF/WAVE container.
func pcmToWav(pcm []byte) ([]byte, error) {
	byteRate := pcmSampleRateHz * pcmChannels * pcmBitsPerSample / 8
	blockAlign := pcmChannels * pcmBitsPerSample / 8
	dataLen := uint32(len(pcm))
	riffLen := 36 + dataLen

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	if err := binary.Write(buf, binary.LittleEndian, riffLen); err != nil {
		return nil, err
	}
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	for _, v := range []any{
		uint32(16),
		uint16(1),
		uint16(pcmChannels),
		uint32(pcmSampleRateHz),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(pcmBitsPerSample),
	} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	buf.WriteString("data")
	if err := binary.Write(buf, binary.LittleEndian, dataLen); err != nil {
		return nil, err
	}
	buf.Write(pcm)

	return buf.Bytes(), nil
}
