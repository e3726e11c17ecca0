// Command tsconv converts between JSON and the tagstream binary format.
//
//	tsconv encode < doc.json > doc.ts
//	tsconv decode [--offset N] < doc.ts > doc.json
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tagstream/tagstream"
	"github.com/tagstream/tagstream/transcode"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tsconv encode|decode [flags] < input > output\n")
	pflag.PrintDefaults()
}

func main() {
	offset := pflag.IntP("offset", "o", 0, "decode: byte offset of the entry")
	pflag.Usage = usage
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tsconv: logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if pflag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Fatal("reading stdin", zap.Error(err))
	}

	out := bufio.NewWriter(os.Stdout)

	switch cmd := pflag.Arg(0); cmd {
	case "encode":
		err = encode(out, in)
	case "decode":
		err = decode(out, in, *offset)
	default:
		usage()
		os.Exit(2)
	}
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		logger.Fatal("conversion failed", zap.String("command", pflag.Arg(0)), zap.Error(err))
	}
}

func encode(w io.Writer, in []byte) error {
	v, err := transcode.FromJSON(in)
	if err != nil {
		return errors.Wrap(err, "parse JSON")
	}
	b, err := tagstream.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	_, err = w.Write(b)
	return err
}

func decode(w io.Writer, in []byte, offset int) error {
	v, err := tagstream.Deserialize(in, &tagstream.DeserializeOptions{Position: offset})
	if err != nil {
		return errors.Wrap(err, "decode")
	}
	if err := transcode.ToJSON(w, v); err != nil {
		return errors.Wrap(err, "write JSON")
	}
	_, err = io.WriteString(w, "\n")
	return err
}
