package image

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// TypeID is a sniffed file format
type TypeID uint8

const (
	TypeNone TypeID = iota
	TypeGIF
	TypeJPEG
	TypePNG
	TypeBMP
	TypeTIFF
	TypeWebP
)

const (
	sigGIF    = "GIF8"
	sigJPEG   = "\xff\xd8\xff"
	sigPNG    = "\211PNG\r\n\032\n"
	sigBMP    = "BM"
	sigTIFFLE = "II*\x00"
	sigTIFFBE = "MM\x00*"
	sigRIFF   = "RIFF"
	sigWebP   = "WEBP"
)

const headSize = 12

// SupportedExts lists the source extensions picked up by a batch, compared case-insensitively
var SupportedExts = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

// IsSupported reports whether name carries one of SupportedExts
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExts {
		if ext == s {
			return true
		}
	}
	return false
}

// GuessType sniffs the format from the leading bytes
func GuessType(head []byte) TypeID {
	switch {
	case bytes.HasPrefix(head, []byte(sigJPEG)):
		return TypeJPEG
	case bytes.HasPrefix(head, []byte(sigPNG)):
		return TypePNG
	case bytes.HasPrefix(head, []byte(sigGIF)):
		return TypeGIF
	case bytes.HasPrefix(head, []byte(sigTIFFLE)), bytes.HasPrefix(head, []byte(sigTIFFBE)):
		return TypeTIFF
	case bytes.HasPrefix(head, []byte(sigRIFF)) && len(head) >= headSize && string(head[8:12]) == sigWebP:
		return TypeWebP
	case bytes.HasPrefix(head, []byte(sigBMP)):
		return TypeBMP
	}
	return TypeNone
}

// ExtByType ...
func ExtByType(t TypeID) string {
	switch t {
	case TypeGIF:
		return ".gif"
	case TypeJPEG:
		return ".jpg"
	case TypePNG:
		return ".png"
	case TypeBMP:
		return ".bmp"
	case TypeTIFF:
		return ".tiff"
	case TypeWebP:
		return ".webp"
	default:
		return ""
	}
}

// A reader is an io.Reader that can also peek ahead.
type reader interface {
	io.Reader
	Peek(int) ([]byte, error)
}

// asReader converts an io.Reader to a reader.
func asReader(r io.Reader) reader {
	if rr, ok := r.(reader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// readHead peeks the signature bytes, short files yield what is there
func readHead(rr reader) []byte {
	head, _ := rr.Peek(headSize)
	return head
}
