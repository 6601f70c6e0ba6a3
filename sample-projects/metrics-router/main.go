package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	intermodal "github.com/reoring/intermodal"
)

// This sample shows the intended consumption pattern: pull blocks lazily from
// a stream, decode the manifest-only view first, and let manifest fields
// decide whether the content is worth interpreting. Routing logic like this
// belongs to applications, never to the codec itself.

func main() {
	in := os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		in = f
	}
	r := intermodal.NewStreamReader(in)
	defer r.Close()

	ctx := context.Background()
	for {
		block, err := r.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("stream: %v", err)
		}
		h, err := intermodal.DecodeHeader(ctx, block)
		if err != nil {
			log.Printf("skipping unreadable block: %v", err)
			continue
		}
		switch h.Manifest.Kind {
		case "cpu":
			handleCPU(ctx, block)
		case "netstat":
			handleNetstat(ctx, block)
		default:
			log.Printf("no handler for %s/%s/%s v%d, skipping",
				h.Manifest.Domain, h.Manifest.Scope, h.Manifest.Kind, h.Manifest.Version)
		}
	}
}

func handleCPU(ctx context.Context, block []byte) {
	env, err := intermodal.DecodeBlock(ctx, block)
	if err != nil {
		log.Printf("cpu block invalid: %v", err)
		return
	}
	idle, ok := env.Content.Get("idle_percent")
	if !ok {
		log.Printf("cpu block from %s has no idle_percent", env.Manifest.Origin)
		return
	}
	items, _ := idle.Items()
	var sum, n int64
	for _, it := range items {
		if v, ok := it.Int64(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return
	}
	fmt.Printf("%s: average idle %d%% over %d samples\n", env.Manifest.Origin, sum/n, n)
}

func handleNetstat(ctx context.Context, block []byte) {
	env, err := intermodal.DecodeBlock(ctx, block)
	if err != nil {
		log.Printf("netstat block invalid: %v", err)
		return
	}
	conns, ok := env.Content.Get("connections")
	if !ok {
		return
	}
	fmt.Printf("%s: %d connections\n", env.Manifest.Origin, conns.Len())
}
