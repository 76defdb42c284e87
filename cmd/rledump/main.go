// Command rledump inspects run-length-encoded mask buffers. It reads a
// JSON integer array and reports run statistics, decoding it either as a
// dense (value, count) raster layer or as binary run counts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"segmask/internal/rle"
)

func main() {
	path := flag.String("file", "", "Path to a JSON integer array")
	dense := flag.Bool("dense", true, "Decode as dense (value, count) pairs; false decodes binary run counts")
	flag.Parse()

	if *path == "" {
		fmt.Println("Usage: rledump -file <path> [-dense=false]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	var buf []int
	if err := json.Unmarshal(data, &buf); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse JSON array: %v\n", err)
		os.Exit(1)
	}

	if *dense {
		dumpDense(buf)
		return
	}
	dumpBinary(buf)
}

// dumpDense reports the pixel count and value histogram of a dense
// raster-layer buffer.
func dumpDense(buf []int) {
	flat, err := rle.DecodeDense(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}

	hist := make(map[int]int)
	for _, v := range flat {
		hist[v]++
	}
	values := make([]int, 0, len(hist))
	for v := range hist {
		values = append(values, v)
	}
	sort.Ints(values)

	fmt.Printf("%d runs, %d pixels, %d distinct values\n", len(buf)/2, len(flat), len(values))
	for _, v := range values {
		fmt.Printf("  value %3d: %d pixels\n", v, hist[v])
	}
}

// dumpBinary reports the foreground coverage of binary run counts and
// verifies the counts survive a re-encode.
func dumpBinary(counts []int) {
	flat := rle.Decode(counts)
	foreground := 0
	for _, v := range flat {
		foreground += int(v)
	}
	fmt.Printf("%d runs, %d pixels, %d foreground\n", len(counts), len(flat), foreground)

	// Round-trip check against a 1xN canvas; column-major order over a
	// single row is the identity.
	again := rle.Encode(flat, 1, len(flat))
	if len(again) != len(counts) {
		fmt.Printf("note: input was not in canonical form (%d runs, canonical %d)\n", len(counts), len(again))
	}
}
