// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
)

// runICC extracts or replaces an image's ICC profile.
//
//	imagebox icc <file>                              print the profile to stdout
//	imagebox icc <file> --extract profile.icc        write the profile to a file
//	imagebox icc <file> --set profile.icc -o out     embed a profile
//	imagebox icc <file> --remove -o out              drop the profile
func runICC(logger *slog.Logger, args []string) error {
	return runMetadata(logger, "icc", args, metadataOps{
		get: func(img metadataImage) []byte { return img.ICCProfile() },
		set: func(img metadataImage, payload []byte) { img.SetICCProfile(payload) },
	})
}

// runEXIF extracts or replaces an image's EXIF metadata. Flags mirror
// the icc subcommand.
func runEXIF(logger *slog.Logger, args []string) error {
	return runMetadata(logger, "exif", args, metadataOps{
		get: func(img metadataImage) []byte { return img.EXIF() },
		set: func(img metadataImage, payload []byte) { img.SetEXIF(payload) },
	})
}

// runStrip removes both ICC and EXIF metadata.
func runStrip(logger *slog.Logger, args []string) error {
	var output string

	flagSet := pflag.NewFlagSet("strip", pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", "", "path for the stripped image (defaults to in-place)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: imagebox strip [flags] <file>")
	}
	path := flagSet.Arg(0)
	if output == "" {
		output = path
	}

	img, err := loadImage(path)
	if err != nil {
		return err
	}
	if img.ICCProfile() == nil && img.EXIF() == nil {
		logger.Warn("no metadata to strip", "file", path)
	}
	img.SetICCProfile(nil)
	img.SetEXIF(nil)
	return writeImage(img, output)
}

// metadataImage is the slice of dynimg.Image the metadata commands
// need; both getters return nil for absent metadata.
type metadataImage interface {
	ICCProfile() []byte
	SetICCProfile([]byte)
	EXIF() []byte
	SetEXIF([]byte)
}

type metadataOps struct {
	get func(metadataImage) []byte
	set func(metadataImage, []byte)
}

// runMetadata implements the shared flag handling of the icc and exif
// subcommands.
func runMetadata(logger *slog.Logger, name string, args []string, ops metadataOps) error {
	var extract, set, output string
	var remove bool

	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&extract, "extract", "", "write the payload to this file instead of stdout")
	flagSet.StringVar(&set, "set", "", "embed the payload read from this file")
	flagSet.BoolVar(&remove, "remove", false, "remove the payload")
	flagSet.StringVarP(&output, "output", "o", "", "path for the edited image (defaults to in-place)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: imagebox %s [flags] <file>", name)
	}
	if set != "" && remove {
		return fmt.Errorf("--set and --remove are mutually exclusive")
	}
	path := flagSet.Arg(0)

	img, err := loadImage(path)
	if err != nil {
		return err
	}

	// Edit mode: write a new image.
	if set != "" || remove {
		var payload []byte
		if set != "" {
			payload, err = os.ReadFile(set)
			if err != nil {
				return fmt.Errorf("reading %s: %w", set, err)
			}
		}
		ops.set(img, payload)
		if output == "" {
			output = path
		}
		return writeImage(img, output)
	}

	// Extract mode.
	payload := ops.get(img)
	if payload == nil {
		logger.Warn("no payload embedded", "file", path, "kind", name)
		return fmt.Errorf("%s: no %s payload", path, name)
	}
	if extract != "" {
		if err := os.WriteFile(extract, payload, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", extract, err)
		}
		return nil
	}
	_, err = os.Stdout.Write(payload)
	return err
}
