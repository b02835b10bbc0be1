// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/imagebox/lib/binhash"
	"github.com/bureau-foundation/imagebox/lib/codec"
	"github.com/bureau-foundation/imagebox/lib/dynimg"
	"github.com/bureau-foundation/imagebox/lib/jpeg"
	"github.com/bureau-foundation/imagebox/lib/png"
	"github.com/bureau-foundation/imagebox/lib/riff"
	"github.com/bureau-foundation/imagebox/lib/webp"
)

// listing is the structural summary of an image file. The json tags
// also drive the CBOR encoding via fxamacker's fallback.
type listing struct {
	File       string       `json:"file"             yaml:"file"`
	Format     string       `json:"format"           yaml:"format"`
	EncodedLen int          `json:"encoded_len"      yaml:"encoded_len"`
	Width      uint32       `json:"width,omitempty"  yaml:"width,omitempty"`
	Height     uint32       `json:"height,omitempty" yaml:"height,omitempty"`
	HasICC     bool         `json:"has_icc"          yaml:"has_icc"`
	HasEXIF    bool         `json:"has_exif"         yaml:"has_exif"`
	Entries    []listingRow `json:"entries"          yaml:"entries"`
}

// listingRow describes one segment or chunk.
type listingRow struct {
	Index  int    `json:"index"            yaml:"index"`
	Kind   string `json:"kind"             yaml:"kind"`
	Size   int    `json:"size"             yaml:"size"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
}

func runList(args []string) error {
	var outputJSON, outputYAML, outputCBOR, withDigest bool

	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flagSet.BoolVar(&outputJSON, "json", false, "output as JSON")
	flagSet.BoolVar(&outputYAML, "yaml", false, "output as YAML")
	flagSet.BoolVar(&outputCBOR, "cbor", false, "output as CBOR (binary, for machine consumers)")
	flagSet.BoolVar(&withDigest, "digest", false, "include a BLAKE3 digest of each payload")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: imagebox list [flags] <file>")
	}
	path := flagSet.Arg(0)

	img, err := loadImage(path)
	if err != nil {
		return err
	}

	summary := summarize(path, img, withDigest)

	switch {
	case outputJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case outputYAML:
		return yaml.NewEncoder(os.Stdout).Encode(summary)
	case outputCBOR:
		data, err := codec.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encoding listing: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return printTable(summary)
	}
}

// summarize walks the container's children and builds the listing.
func summarize(path string, img dynimg.Image, withDigest bool) listing {
	summary := listing{
		File:       path,
		EncodedLen: img.EncodedLen(),
		HasICC:     img.ICCProfile() != nil,
		HasEXIF:    img.EXIF() != nil,
	}

	digest := func(payload []byte) string {
		if !withDigest {
			return ""
		}
		return binhash.FormatDigest(binhash.Sum(payload))
	}

	switch img := img.(type) {
	case *jpeg.Image:
		summary.Format = "jpeg"
		for i, seg := range img.Segments() {
			row := listingRow{
				Index:  i,
				Kind:   fmt.Sprintf("0xFF%02X", seg.Marker()),
				Size:   seg.EncodedLen(),
				Digest: digest(seg.Contents()),
			}
			summary.Entries = append(summary.Entries, row)
		}
	case *png.Image:
		summary.Format = "png"
		for i, chunk := range img.Chunks() {
			kind := chunk.Kind()
			row := listingRow{
				Index:  i,
				Kind:   string(kind[:]),
				Size:   chunk.EncodedLen(),
				Digest: digest(chunk.Contents()),
			}
			summary.Entries = append(summary.Entries, row)
		}
	case *webp.Image:
		summary.Format = "webp"
		if width, height, ok := img.Dimensions(); ok {
			summary.Width, summary.Height = width, height
		}
		for i, chunk := range img.Chunks() {
			id := chunk.ID()
			row := listingRow{
				Index: i,
				Kind:  string(id[:]),
				Size:  chunk.EncodedLen(),
			}
			if data, ok := chunk.Content().(riff.Data); ok {
				row.Digest = digest(data)
			}
			summary.Entries = append(summary.Entries, row)
		}
	}
	return summary
}

func printTable(summary listing) error {
	fmt.Printf("%s: %s, %d bytes", summary.File, summary.Format, summary.EncodedLen)
	if summary.Width > 0 {
		fmt.Printf(", %dx%d", summary.Width, summary.Height)
	}
	fmt.Printf(", icc=%t, exif=%t\n", summary.HasICC, summary.HasEXIF)

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	if hasDigests(summary.Entries) {
		fmt.Fprintf(tw, "INDEX\tKIND\tSIZE\tDIGEST\n")
		for _, row := range summary.Entries {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", row.Index, row.Kind, row.Size, row.Digest)
		}
	} else {
		fmt.Fprintf(tw, "INDEX\tKIND\tSIZE\n")
		for _, row := range summary.Entries {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", row.Index, row.Kind, row.Size)
		}
	}
	return tw.Flush()
}

func hasDigests(rows []listingRow) bool {
	for _, row := range rows {
		if row.Digest != "" {
			return true
		}
	}
	return false
}
