/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"github.com/foodgram-ops/foodgate/pkg/cli"
)

func main() {
	cli.Execute()
}
