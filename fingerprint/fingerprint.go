// Package fingerprint computes the document-identity digests used by the
// kosync protocol. A fingerprint is an MD5 digest rendered as a lowercase
// 32-hex string, derived one of three ways: over the full document bytes,
// over the filename string, or over a sparse sample of the document
// (KOReader's util.partialMD5). The algorithms are fixed by the client
// protocol; MD5 is an identity key here, not a security boundary.
package fingerprint

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/teranos/kosyncd/errors"
)

const (
	// fullChunkSize is the read size for full-content digests
	fullChunkSize = 4096

	// DefaultStep is the base offset multiplier for sparse sampling
	DefaultStep = 1024

	// DefaultSampleSize is the window size for sparse sampling
	DefaultSampleSize = 1024

	// sparseWindows is the number of exponential offsets sampled after the
	// initial window at offset 0
	sparseWindows = 10
)

// Full computes the MD5 digest over the entire byte stream, reading in
// fixed-size chunks. Works on any reader; no seeking required. An empty
// stream is valid and yields the digest of zero bytes.
func Full(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, fullChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to read document stream")
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Filename computes the MD5 digest over the exact byte encoding of the
// document's filename. No path trimming, no trailing newline.
//
//	Filename("minimal-v3plus2.epub") == "35322b7036d0c3298eedde8c30429693"
func Filename(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// Sparse computes KOReader's partial MD5: one sampleSize window from offset
// 0, then up to ten windows at offsets step << (2*i) for i in 0..9. A read
// that yields no data ends the loop. The offset sequence and window
// boundaries must match KOReader's util.partialMD5 exactly; any deviation
// produces an incompatible fingerprint.
func Sparse(rs io.ReadSeeker, step, sampleSize int64) (string, error) {
	h := md5.New()
	buf := make([]byte, sampleSize)

	n, err := readWindow(rs, buf)
	if err != nil {
		return "", err
	}
	h.Write(buf[:n])

	for i := 0; i < sparseWindows; i++ {
		if _, err := rs.Seek(step<<(2*i), io.SeekStart); err != nil {
			return "", errors.Wrapf(err, "failed to seek to sample %d", i)
		}
		n, err := readWindow(rs, buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			break
		}
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SparseDefault computes Sparse with the protocol's default step and
// sample size of 1024 bytes.
func SparseDefault(rs io.ReadSeeker) (string, error) {
	return Sparse(rs, DefaultStep, DefaultSampleSize)
}

// SparseFromReader buffers a non-seekable stream fully into memory and
// computes the default sparse digest over it.
func SparseFromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to buffer document stream")
	}
	return SparseDefault(bytes.NewReader(data))
}

// readWindow fills buf as far as the source allows. A short read at end of
// file is not an error; the caller gets whatever bytes exist.
func readWindow(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	if err != nil {
		return n, errors.Wrap(err, "failed to read sample window")
	}
	return n, nil
}
