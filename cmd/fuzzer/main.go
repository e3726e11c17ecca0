// Command fuzzer feeds random documents and random values through the codec
// and reports, minimized, any input on which decoding, skipping and
// re-encoding disagree.
package main

import (
	"encoding/hex"
	"fmt"
	"math"
	mrand "math/rand"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dgryski/go-ddmin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tagstream/tagstream"
)

var tags = []byte("OAS+-FUNM10")

func main() {
	iterations := pflag.IntP("iterations", "n", 100000, "number of documents to try")
	seed := pflag.Int64P("seed", "s", 1, "random seed")
	maxLen := pflag.IntP("max-len", "l", 200, "maximum random document length")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fuzzer: logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	r := mrand.New(mrand.NewSource(*seed))
	failures := 0

	for i := 0; i < *iterations; i++ {
		doc := randomDocument(r, *maxLen)
		if check(doc) == nil {
			continue
		}

		failures++
		minimized := ddmin.Minimize(doc, func(d []byte) ddmin.Result {
			if check(d) != nil {
				return ddmin.Fail
			}
			return ddmin.Pass
		})
		logger.Error("document failed", zap.Int("iteration", i), zap.Error(check(minimized)))
		fmt.Println(hex.Dump(minimized))
	}

	for i := 0; i < *iterations/10; i++ {
		v := randomValue(r, 0)
		b, err := tagstream.Marshal(v)
		if err != nil {
			failures++
			logger.Error("marshal failed", zap.Int("iteration", i), zap.Error(err))
			continue
		}
		got, err := tagstream.Unmarshal(b)
		if err != nil || !tagstream.Equal(v, got) {
			failures++
			logger.Error("value failed to roundtrip", zap.Int("iteration", i), zap.Error(err))
			fmt.Println(hex.Dump(b))
		}
	}

	logger.Info("done", zap.Int("iterations", *iterations), zap.Int("failures", failures))
	if failures > 0 {
		os.Exit(1)
	}
}

// randomDocument is a valid tag followed by random bytes.
func randomDocument(r *mrand.Rand, maxLen int) []byte {
	doc := make([]byte, 1+r.Intn(maxLen))
	r.Read(doc)
	doc[0] = tags[r.Intn(len(tags))]
	return doc
}

// check returns an error describing any disagreement between Decode, Skip
// and a re-encode of doc. Documents that are merely invalid pass.
func check(doc []byte) error {
	var d tagstream.Decoder
	v, n, err := d.Decode(doc, 0)
	sz, serr := tagstream.Skip(doc, 0)

	if (err == nil) != (serr == nil) {
		return errors.Newf("decode error %v, skip error %v", err, serr)
	}
	if err != nil {
		return nil
	}
	if n != sz {
		return errors.Newf("decode consumed %d bytes, skip %d", n, sz)
	}

	b, err := tagstream.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "re-encode")
	}
	v2, err := tagstream.Unmarshal(b)
	if err != nil {
		return errors.Wrap(err, "decode re-encoded")
	}
	if !tagstream.Equal(v, v2) {
		return errors.New("roundtrip mismatch")
	}
	return nil
}

func randomValue(r *mrand.Rand, depth int) tagstream.Value {
	n := 9
	if depth > 4 {
		n = 5 // scalars only
	}
	switch r.Intn(n) {
	case 0:
		return tagstream.Null{}
	case 1:
		return tagstream.Bool(r.Intn(2) == 0)
	case 2:
		return tagstream.Int(r.Int63n(2*math.MaxUint32+1) - math.MaxUint32)
	case 3:
		return tagstream.Float(float32(r.NormFloat64() * 1e6))
	case 4:
		runes := make([]rune, r.Intn(12))
		for i := range runes {
			runes[i] = rune(r.Intn(0xd800))
		}
		return tagstream.String(runes)
	case 5:
		return tagstream.Array(randomValues(r, depth))
	case 6:
		return tagstream.Set(randomValues(r, depth))
	case 7:
		m := make(tagstream.Map, r.Intn(5))
		for i := range m {
			m[i] = tagstream.Pair{Key: randomValue(r, depth+1), Value: randomValue(r, depth+1)}
		}
		return m
	default:
		o := make(tagstream.Object, r.Intn(5))
		for i := range o {
			o[i] = tagstream.Field{Name: fmt.Sprintf("f%d", r.Intn(100)), Value: randomValue(r, depth+1)}
		}
		return o
	}
}

func randomValues(r *mrand.Rand, depth int) []tagstream.Value {
	vs := make([]tagstream.Value, r.Intn(6))
	for i := range vs {
		vs[i] = randomValue(r, depth+1)
	}
	return vs
}
