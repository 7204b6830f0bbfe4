// Command analyze-taps inspects a filter definition: DC gain, fixed-point
// quantization error, which sample formats can run it, and the magnitude
// response.
//
// Usage:
//
//	analyze-taps lowpass.yaml
//	analyze-taps -bins 33 lowpass.yaml
//	analyze-taps -normalize unity.yaml lowpass.yaml   # write a unity-DC-gain copy
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tphakala/go-fir/internal/filterfile"
)

const (
	defaultBins     = 17
	minBins         = 2
	minRequiredArgs = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	bins := flag.Int("bins", defaultBins, "Number of magnitude response points between DC and Nyquist")
	normalize := flag.String("normalize", "", "Write a copy scaled to unity DC gain to this path")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] filter.yaml\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	if *bins < minBins {
		return fmt.Errorf("-bins must be at least %d", minBins)
	}

	def, err := filterfile.Load(args[0])
	if err != nil {
		return err
	}

	report, err := analyze(def, *bins)
	if err != nil {
		return err
	}
	report.print(os.Stdout)

	if *normalize != "" {
		unity, err := normalized(def)
		if err != nil {
			return err
		}
		if err := filterfile.Save(*normalize, unity); err != nil {
			return err
		}
		fmt.Printf("\nWrote unity-gain definition to %s\n", *normalize)
	}

	return nil
}
