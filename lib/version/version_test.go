// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	// Info carries the version, commit, and build time; the dirty
	// suffix appears only when GitDirty is "true".
	got := Info()
	for _, want := range []string{Version, GitCommit, BuildTime} {
		if !strings.Contains(got, want) {
			t.Fatalf("Info() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "-dirty") {
		t.Fatalf("Info() = %q reports a dirty build by default", got)
	}

	defer func(prev string) { GitDirty = prev }(GitDirty)
	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "-dirty") {
		t.Fatalf("Info() = %q, missing the dirty suffix", got)
	}
}

func TestFull(t *testing.T) {
	// Full extends Info with the Go version and platform.
	got := Full()
	for _, want := range []string{Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH} {
		if !strings.Contains(got, want) {
			t.Fatalf("Full() = %q, missing %q", got, want)
		}
	}
}

func TestShortAndCommit(t *testing.T) {
	if got := Short(); got != Version {
		t.Fatalf("Short() = %q, want %q", got, Version)
	}
	if got := Commit(); got != GitCommit {
		t.Fatalf("Commit() = %q, want %q", got, GitCommit)
	}
}
