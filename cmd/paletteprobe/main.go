// Command paletteprobe runs only the quantization stage of the pipeline and
// prints the resulting palette, for tuning color counts before a full run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pbngen/internal/imaging"
	"pbngen/internal/quantize"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	colors := flag.Int("colors", 12, "palette size K")
	seed := flag.Int64("seed", 1, "clustering RNG seed")
	restarts := flag.Int("restarts", 3, "clustering restarts")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: paletteprobe [flags] image.png")
		flag.PrintDefaults()
		os.Exit(2)
	}

	img, err := imaging.LoadImage(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	opts := quantize.DefaultOptions()
	opts.ColorCount = *colors
	opts.Seed = *seed
	opts.Restarts = *restarts

	res, err := quantize.Quantize(imaging.FromImage(img), opts)
	if err != nil {
		log.Fatal(err)
	}
	if !res.Converged {
		log.Print("warning: clustering hit the iteration cap; using best attempt")
	}

	fmt.Printf("%-4s %-12s %-8s %s\n", "ID", "NAME", "HEX", "RGB")
	for _, e := range res.Palette {
		fmt.Printf("%-4d %-12s %-8s (%3d, %3d, %3d)\n", e.ID, e.Name, e.Hex, e.R, e.G, e.B)
	}
	fmt.Printf("total within-cluster variance: %.1f\n", res.Variance)
}
