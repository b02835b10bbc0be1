// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// imagebox inspects and edits the container structure of JPEG, PNG,
// and WebP files: listing segments and chunks, extracting or
// replacing ICC profiles and EXIF metadata, and stripping metadata
// entirely. It never decodes or re-encodes pixel data; untouched
// bytes round-trip exactly.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/imagebox/lib/dynimg"
	"github.com/bureau-foundation/imagebox/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	subcommand := os.Args[1]
	switch subcommand {
	case "list":
		return runList(os.Args[2:])
	case "icc":
		return runICC(logger, os.Args[2:])
	case "exif":
		return runEXIF(logger, os.Args[2:])
	case "strip":
		return runStrip(logger, os.Args[2:])
	case "version", "--version":
		return runVersion(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

// runVersion prints build version information.
func runVersion(args []string) error {
	var full, short, commit bool

	flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
	flagSet.BoolVar(&full, "full", false, "include Go version and platform")
	flagSet.BoolVar(&short, "short", false, "print the bare version number")
	flagSet.BoolVar(&commit, "commit", false, "print the bare git commit")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	switch {
	case full:
		fmt.Println(version.Full())
	case short:
		fmt.Println(version.Short())
	case commit:
		fmt.Println(version.Commit())
	default:
		fmt.Printf("imagebox %s\n", version.Info())
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: imagebox <subcommand> [flags]

Subcommands:
  list     List the segments or chunks of an image file
  icc      Extract or replace an embedded ICC profile
  exif     Extract or replace embedded EXIF metadata
  strip    Remove ICC and EXIF metadata
  version  Print version information

Run 'imagebox <subcommand> --help' for subcommand flags.
`)
}

// loadImage reads path and parses it into a format-independent image.
func loadImage(path string) (dynimg.Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, ok, err := dynimg.FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: no supported image format", path)
	}
	return img, nil
}

// writeImage streams the image's fragments to path. The encode path
// never materializes the whole file in memory.
func writeImage(img dynimg.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := img.Encoder().WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
