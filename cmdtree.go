// Copyright 2021-2024, Florent Heyworth. All rights reserved.
// Use of this source code is governed by the MIT licensee
// which can be found in the LICENSE file.

// Package cmdtree provides support for command-line parsing and command dispatch.
//
// A host application declares a tree of commands, each with named options and positional values,
// and registers it with an App. Parsing runs in three stages:
//
//	resolve  - walk the command tree and find the terminal command
//	bind     - match the remaining tokens against the command's options and values
//	validate - let the command's executor check the bound data
//
// A successful parse is dispatched to the command's executor, which is one of
//
//	Direct   - the bound options value executes itself
//	External - a separate executor object receives the bound options
//	Function - a plain function receives the bound options
//
// each in a synchronous and an asynchronous flavor.
//
// Parsing problems are reported as CliErrors, an ordered list of *CliError values. Requests for
// help or version information are reported the same way so that a single renderer can produce
// every user facing page. Mistakes in the command tree itself (duplicate aliases, a missing parent
// and the like) are returned as plain errors wrapping the sentinels of package errs.
package cmdtree
