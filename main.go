// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/wayfarerhq/wayfarer/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
