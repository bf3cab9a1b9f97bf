// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/hospifind/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
