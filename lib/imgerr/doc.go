// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package imgerr defines the closed set of failures shared by every
// container parser in imagebox.
//
// Parsers wrap these sentinels with fmt.Errorf("...: %w", ...) to add
// positional context; callers branch with errors.Is. Absence of a
// metadata payload is never one of these errors; it is reported as a
// nil slice by the accessors that can encounter it. Write failures on
// an output sink propagate as the sink's own error, unwrapped.
package imgerr
