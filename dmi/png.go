package dmi

// This file contains the PNG chunk handling needed to get at the description
// text. image/png drops text chunks on decode and has no way to emit them on
// encode, so the chunk stream is walked and patched here.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/glog"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

const (
	pngSignature       = "\x89PNG\r\n\x1a\n"
	descriptionKeyword = "Description"
)

type chunk struct {
	Type string
	Data []byte
}

// readChunks splits a PNG byte stream into chunks, verifying each CRC.
func readChunks(b []byte) ([]chunk, error) {
	if !bytes.HasPrefix(b, []byte(pngSignature)) {
		return nil, fmt.Errorf("dmi: not a png file")
	}
	r := bytes.NewReader(b[len(pngSignature):])

	var chunks []chunk
	for {
		var hdr struct {
			Length uint32
			Type   [4]byte
		}
		if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("dmi: could not read png chunk header: %s", err)
		}
		if int64(hdr.Length) > int64(r.Len()) {
			return nil, fmt.Errorf("dmi: png chunk %q too long; got %d, have %d bytes left", hdr.Type[:], hdr.Length, r.Len())
		}
		data := make([]byte, hdr.Length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("dmi: could not read png chunk %q: %s", hdr.Type[:], err)
		}
		var crc uint32
		if err := binary.Read(r, binary.BigEndian, &crc); err != nil {
			return nil, fmt.Errorf("dmi: could not read crc of png chunk %q: %s", hdr.Type[:], err)
		}
		h := crc32.NewIEEE()
		h.Write(hdr.Type[:])
		h.Write(data)
		if got := h.Sum32(); got != crc {
			return nil, fmt.Errorf("dmi: bad crc for png chunk %q; got %08x, want %08x", hdr.Type[:], got, crc)
		}
		glog.V(3).Infof("dmi: png chunk %s, %d bytes", hdr.Type[:], hdr.Length)
		chunks = append(chunks, chunk{Type: string(hdr.Type[:]), Data: data})
		if string(hdr.Type[:]) == "IEND" {
			break
		}
	}
	if len(chunks) == 0 || chunks[0].Type != "IHDR" {
		return nil, fmt.Errorf("dmi: png does not start with IHDR")
	}
	return chunks, nil
}

func writeChunk(w io.Writer, c chunk) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(c.Data))); err != nil {
		return err
	}
	h := crc32.NewIEEE()
	mw := io.MultiWriter(w, h)
	if _, err := io.WriteString(mw, c.Type); err != nil {
		return err
	}
	if _, err := mw.Write(c.Data); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, h.Sum32())
}

// findDescription returns the text of the first zTXt or tEXt chunk with the
// Description keyword.
func findDescription(chunks []chunk) (string, error) {
	for _, c := range chunks {
		if c.Type != "zTXt" && c.Type != "tEXt" {
			continue
		}
		keyword, rest, ok := bytes.Cut(c.Data, []byte{0})
		if !ok || string(keyword) != descriptionKeyword {
			continue
		}
		if c.Type == "tEXt" {
			return string(rest), nil
		}
		if len(rest) < 1 || rest[0] != 0 {
			return "", fmt.Errorf("dmi: unsupported zTXt compression method")
		}
		zr, err := zlib.NewReader(bytes.NewReader(rest[1:]))
		if err != nil {
			return "", errors.Wrap(err, "dmi: opening compressed description")
		}
		text, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return "", errors.Wrap(err, "dmi: decompressing description")
		}
		return string(text), nil
	}
	return "", ErrNoDescription
}

func descriptionChunk(text string) (chunk, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(descriptionKeyword)
	buf.WriteByte(0) // keyword terminator
	buf.WriteByte(0) // compression method: deflate
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return chunk{}, err
	}
	if _, err := io.WriteString(zw, text); err != nil {
		return chunk{}, err
	}
	if err := zw.Close(); err != nil {
		return chunk{}, err
	}
	return chunk{Type: "zTXt", Data: buf.Bytes()}, nil
}

// withDescription rewrites an encoded PNG so that it carries text in a zTXt
// chunk right after IHDR. Any previous description chunk is dropped.
func withDescription(w io.Writer, encoded []byte, text string) error {
	chunks, err := readChunks(encoded)
	if err != nil {
		return err
	}
	desc, err := descriptionChunk(text)
	if err != nil {
		return errors.Wrap(err, "dmi: compressing description")
	}

	if _, err := io.WriteString(w, pngSignature); err != nil {
		return err
	}
	for i, c := range chunks {
		if (c.Type == "zTXt" || c.Type == "tEXt") && bytes.HasPrefix(c.Data, []byte(descriptionKeyword+"\x00")) {
			continue
		}
		if err := writeChunk(w, c); err != nil {
			return err
		}
		if i == 0 {
			if err := writeChunk(w, desc); err != nil {
				return err
			}
		}
	}
	return nil
}
