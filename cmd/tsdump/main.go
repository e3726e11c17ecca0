package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tagstream/tagstream"
)

var (
	offset  = pflag.IntP("offset", "o", 0, "byte offset of the first entry")
	dumpHex = pflag.BoolP("hex", "x", false, "print a hex dump of the input before the value")
	all     = pflag.BoolP("all", "a", false, "decode consecutive entries until the input is exhausted")
)

func process(logger *zap.Logger, fname string, b []byte) {
	if *dumpHex {
		fmt.Print(hex.Dump(b))
	}

	var d tagstream.Decoder
	pos := *offset

	for {
		v, n, err := d.Decode(b, pos)
		if err != nil {
			logger.Fatal("error processing", zap.String("file", fname), zap.Int("offset", pos), zap.Error(err))
		}

		spew.Dump(v)

		pos += n
		if !*all || pos >= len(b) {
			return
		}
	}
}

func main() {
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tsdump: logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if pflag.NArg() == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("reading stdin", zap.Error(err))
		}
		process(logger, "stdin", b)
		return
	}

	for _, arg := range pflag.Args() {
		b, err := os.ReadFile(arg)
		if err != nil {
			logger.Fatal("reading file", zap.String("file", arg), zap.Error(err))
		}
		process(logger, arg, b)
	}
}
