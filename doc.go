/*
Package redline pauses an automated workflow until a human reviews a
markdown document, line by line, in a local web page.

It segments the document into independently checkable items, serves them
over a loopback HTTP endpoint, and blocks the calling workflow until the
reviewer submits a decision (or the review times out or is cancelled). The
outcome is a deterministic structured summary of the human's choices.

# Concept

Redline is a review gate. The coordinator owns the session lifecycle: it
parses the document, registers the single active session, exposes it to the
review page, and waits on the session's one-shot completion signal. The
page (or any client speaking the small JSON API) submits exactly one
decision set; everything else is rejected with a structured error. Reviews
are processed one at a time: concurrent callers queue in FIFO order rather
than failing.

This Hexagonal Architecture keeps the core independent of its surfaces:
the same coordinator backs the CLI, the MCP server, and library embedding.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/redline"
	)

	func main() {
		coord, err := redline.New()
		if err != nil {
			log.Fatal(err)
		}
		defer coord.Close(context.Background())

		result, err := coord.Review(context.Background(),
			"- Ship feature X\n- Delete legacy endpoint", "Release plan")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("approved %d of %d items\n",
			result.Summary.Approved, result.Summary.Total)
	}
*/
package redline
