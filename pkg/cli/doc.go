/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the foodgate command line interface: running
// the gateway, printing the routing table, and checking deployment
// artifacts.
package cli
