package values

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Seed identifies one generation event: a particular sample, in a
// particular phase, on a particular worker thread. Generate re-seeds a
// fresh PRNG from this triple on every call, so the same (sample_index,
// phase, thread) triple always reproduces the same value, and concurrent
// generations never share mutable PRNG state. Because the thread is part
// of the seed, a sample handled by a different worker thread in another
// run gets a different value.
type Seed struct {
	SampleIndex int
	Phase       string
	ThreadID    int
}

// randSource is the minimal PRNG surface the generator leaves need.
type randSource interface {
	Intn(n int) int
	Int31() int32
	Float64() float64
}

func newRand(seed Seed) randSource {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(uint32(seed.SampleIndex))<<32|uint64(uint32(seed.ThreadID)))
	h := xxhash.New()
	_, _ = h.Write(buf[:8])
	_, _ = h.WriteString(seed.Phase)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// ---- string:X / string:X..Y ----

type stringNode struct{ min, max int }

const stringAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (n *stringNode) Generate(rng randSource) interface{} {
	length := n.min
	if n.max > n.min {
		length = n.min + rng.Intn(n.max-n.min+1)
	}
	return randomAlpha(rng, length)
}

func randomAlpha(rng randSource, length int) string {
	if length <= 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = stringAlphabet[rng.Intn(len(stringAlphabet))]
	}
	return string(b)
}

// ---- text:X / text:X..Y ----

type textNode struct{ min, max int }

func (n *textNode) Generate(rng randSource) interface{} {
	target := n.min
	if n.max > n.min {
		target = n.min + rng.Intn(n.max-n.min+1)
	}
	return randomText(rng, target)
}

// randomText appends whole words (2-10 chars, space-separated) until the
// next word would overshoot target, then pads with a truncated word so the
// result is exactly target bytes long. When only one byte is left, which
// a separator plus a word cannot fill, the last word is lengthened by one
// byte instead.
func randomText(rng randSource, target int) string {
	if target <= 0 {
		return ""
	}
	out := make([]byte, 0, target)
	for {
		sep := 0
		if len(out) > 0 {
			sep = 1
		}
		wordLen := 2 + rng.Intn(9)
		if len(out)+sep+wordLen > target {
			remaining := target - len(out) - sep
			if remaining > 0 {
				if sep == 1 {
					out = append(out, ' ')
				}
				out = append(out, randomAlpha(rng, remaining)...)
			} else if len(out) < target {
				out = append(out, randomAlpha(rng, target-len(out))...)
			}
			break
		}
		if sep == 1 {
			out = append(out, ' ')
		}
		out = append(out, randomAlpha(rng, wordLen)...)
	}
	return string(out)
}

// ---- int / int:X..Y ----

type intNode struct {
	ranged   bool
	min, max int
}

func (n *intNode) Generate(rng randSource) interface{} {
	if !n.ranged {
		return rng.Int31()
	}
	return n.min + rng.Intn(n.max-n.min+1)
}

// ---- float / float:X..Y ----

type floatNode struct {
	ranged   bool
	min, max float64
}

func (n *floatNode) Generate(rng randSource) interface{} {
	if !n.ranged {
		return float32(rng.Float64())
	}
	return n.min + rng.Float64()*(n.max-n.min)
}

// ---- bool ----

type boolNode struct{}

func (boolNode) Generate(rng randSource) interface{} { return rng.Intn(2) == 1 }

// ---- uuid ----

type uuidNode struct{}

func (uuidNode) Generate(rng randSource) interface{} {
	var b [16]byte
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	b[6] = (b[6] & 0x0F) | 0x40 // version 4
	b[8] = (b[8] & 0x3F) | 0x80 // variant
	u, err := uuid.FromBytes(b[:])
	if err != nil {
		// uuid.FromBytes only fails on wrong-length input, which cannot
		// happen here; keep Generate total rather than panicking.
		return fmt.Sprintf("%x", b)
	}
	return u.String()
}

// ---- datetime ----

type datetimeNode struct{}

// windowSeconds bounds how far from the Unix epoch a generated timestamp
// can land: timestamps fall in the first 20 years after 1970-01-01 UTC.
const windowSeconds = 20 * 365 * 24 * 3600

func (datetimeNode) Generate(rng randSource) interface{} {
	offset := rng.Intn(windowSeconds)
	t := time.Unix(int64(offset), 0).UTC()
	return t.Format(time.RFC3339)
}

// ---- string_enum / int_enum / float_enum ----

type stringEnumNode struct{ options []string }

func (n *stringEnumNode) Generate(rng randSource) interface{} {
	return n.options[rng.Intn(len(n.options))]
}

type intEnumNode struct{ options []int }

func (n *intEnumNode) Generate(rng randSource) interface{} {
	return n.options[rng.Intn(len(n.options))]
}

type floatEnumNode struct{ options []float64 }

func (n *floatEnumNode) Generate(rng randSource) interface{} {
	return n.options[rng.Intn(len(n.options))]
}

// ---- words:N;w1,w2,... ----

type wordsNode struct {
	count int
	vocab []string
}

func (n *wordsNode) Generate(rng randSource) interface{} {
	words := make([]string, n.count)
	for i := range words {
		words[i] = n.vocab[rng.Intn(len(n.vocab))]
	}
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
