// Command huff compresses and decompresses files with adaptive Huffman
// coding.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/chronos-tachyon/huff"
	"github.com/chronos-tachyon/huff/bitstream"
)

const progName = "huff"

const usageMessage = `USAGE: huff [--puff] [-h|--help] [-r|--report] [-d|--debug] [-w|--width N] <input-file> <output-file>
<input-file>   the file treated as input
<output-file>  the file treated as output (will overwrite if already exists)
--puff         decompress the input file; huff compresses by default
-h|--help      print this usage screen
-r|--report    print a report on the compression achieved and the final code tree
-d|--debug     enable debug logging
-w|--width N   bit register width in bytes when compressing: 1, 2, 4 or 8 (default 1)
`

var log = logging.MustGetLogger("huff/cmd")

var leveledLogBackend logging.Leveled

func startLogging(w io.Writer) {
	backend := logging.NewLogBackend(w, progName+": ", 0)
	formatSpec := "%{level:-7s} %{module:-10s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

type config struct {
	puff   bool
	help   bool
	report bool
	debug  bool
	width  int
	input  string
	output string
}

type usageError struct {
	msg string
}

func (err usageError) Error() string {
	return err.msg
}

func usageErrorf(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

// parseArgs accepts flags before, between and after the two file names.
func parseArgs(args []string) (config, error) {
	cfg := config{width: 1}

	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(&nullWriter{})

	// Usage strings are hardcoded above.

	fs.BoolVar(&cfg.puff, "puff", false, "")
	fs.BoolVar(&cfg.help, "help", false, "")
	fs.BoolVar(&cfg.help, "h", false, "")
	fs.BoolVar(&cfg.report, "report", false, "")
	fs.BoolVar(&cfg.report, "r", false, "")
	fs.BoolVar(&cfg.debug, "debug", false, "")
	fs.BoolVar(&cfg.debug, "d", false, "")
	fs.IntVar(&cfg.width, "width", 1, "")
	fs.IntVar(&cfg.width, "w", 1, "")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if err == flag.ErrHelp {
				cfg.help = true
				return cfg, nil
			}
			return cfg, usageErrorf("%s", err.Error())
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if cfg.help {
		return cfg, nil
	}

	switch len(positional) {
	case 0:
		return cfg, usageErrorf("input file not specified")
	case 1:
		return cfg, usageErrorf("output file not specified")
	case 2:
		cfg.input, cfg.output = positional[0], positional[1]
	default:
		return cfg, usageErrorf("unrecognised argument: %s", positional[2])
	}

	if !bitstream.ValidWidth(cfg.width) {
		return cfg, usageErrorf("bad register width %d: must be 1, 2, 4 or 8", cfg.width)
	}
	return cfg, nil
}

func main() {
	startLogging(os.Stderr)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	cfg, err := parseArgs(args)
	if err != nil {
		log.Error(err.Error())
		io.WriteString(stderr, usageMessage)
		return 1
	}
	if cfg.help {
		io.WriteString(stdout, usageMessage)
		return 0
	}
	if cfg.debug {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}

	result, err := process(cfg)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	if cfg.report {
		writeReport(stdout, cfg, result)
	}
	return 0
}

type result struct {
	stats  huff.Stats
	digest uint64
}

func process(cfg config) (res result, err error) {
	in, err := os.Open(cfg.input)
	if err != nil {
		return res, errors.Wrapf(err, "failed to read %s", cfg.input)
	}
	defer in.Close()

	out, err := os.Create(cfg.output)
	if err != nil {
		return res, errors.Wrapf(err, "failed to find / write to %s", cfg.output)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "failed to write %s", cfg.output)
		}
		if err != nil {
			log.Debugf("removing partial output %s", cfg.output)
			os.Remove(cfg.output)
		}
	}()

	var digest xxhash.Digest
	digest.Reset()

	if cfg.puff {
		log.Infof("decompressing %s into %s", cfg.input, cfg.output)
		bw := bufio.NewWriter(out)
		res.stats, err = huff.Decompress(io.MultiWriter(bw, &digest), bufio.NewReader(in))
		if err == nil {
			err = errors.WithStack(bw.Flush())
		}
	} else {
		log.Infof("compressing %s into %s", cfg.input, cfg.output)
		res.stats, err = huff.Compress(out, io.TeeReader(bufio.NewReader(in), &digest), huff.WithRegisterWidth(cfg.width))
	}
	if err != nil {
		return res, errors.Wrapf(err, "failed to process %s", cfg.input)
	}

	res.digest = digest.Sum64()
	log.Debugf("%v", res.stats)
	return res, nil
}

func writeReport(w io.Writer, cfg config, res result) {
	inputSize := fileSize(cfg.input)
	outputSize := fileSize(cfg.output)

	inputNote, outputNote := "", " (compressed)"
	compressed, plain := outputSize, inputSize
	if cfg.puff {
		inputNote, outputNote = " (compressed)", ""
		compressed, plain = inputSize, outputSize
	}

	ratio := 0.0
	if compressed >= 0 && plain > 0 {
		ratio = math.Round(100*float64(compressed)/float64(plain)) / 100
	}

	fmt.Fprintf(w, "input file size    : %s%s\n", sizeString(inputSize), inputNote)
	fmt.Fprintf(w, "output file size   : %s%s\n", sizeString(outputSize), outputNote)
	fmt.Fprintf(w, "compression ratio  : %s\n", strconv.FormatFloat(ratio, 'f', -1, 64))
	fmt.Fprintf(w, "final node count   : %d\n", res.stats.Nodes)
	if s := res.stats.MostFrequent; s != huff.InvalidSymbol {
		fmt.Fprintf(w, "most common symbol : %s\n", symbolString(s))
	}
	if s := res.stats.LeastFrequent; s != huff.InvalidSymbol && s != res.stats.MostFrequent {
		fmt.Fprintf(w, "least common symbol: %s\n", symbolString(s))
	}
	fmt.Fprintf(w, "plain xxhash64     : %016x\n", res.digest)
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return fi.Size()
}

func sizeString(size int64) string {
	if size < 0 {
		return "failed to determine size"
	}
	return strconv.FormatInt(size, 10)
}

func symbolString(s huff.Symbol) string {
	return fmt.Sprintf("0x%02x %q", int(s), rune(s))
}
