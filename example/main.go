// Minimal example for fetchengo demonstrating a basic JSON client plus a
// slightly more advanced client showing state injection, event subscription,
// per-call overrides, abort and typed decoding.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ambiyansyah-risyal/fetchengo"
)

func main() {
	// --- Basic client ---
	basic, err := fetchengo.New(fetchengo.Config{
		BaseURL: "https://httpbin.org",
		Type:    fetchengo.PayloadJSON,
		Timeout: 10 * time.Second,
	}, fetchengo.WithSimpleLogger())
	if err != nil {
		log.Fatalf("invalid basic client config: %v", err)
	}
	ctx := context.Background()
	value, err := basic.Get(ctx, "/json", nil).Wait(ctx)
	if err != nil {
		log.Fatalf("basic GET failed: %v", err)
	}
	fmt.Printf("basic GET parsed %T\n", value)

	// --- Advanced snippet: state-driven auth, events, abort ---
	advanced, err := fetchengo.New(fetchengo.Config{
		BaseURL:      "https://httpbin.org",
		Type:         fetchengo.PayloadJSON,
		Headers:      fetchengo.Headers{"User-Agent": "fetchengo-example"},
		InitialState: map[string]string{"token": "demo-token"},
		ModifyOptions: func(opts *fetchengo.RequestOptions, state any) *fetchengo.RequestOptions {
			opts.Headers["Authorization"] = "Bearer " + state.(map[string]string)["token"]
			return opts
		},
	}, fetchengo.WithMetrics())
	if err != nil {
		log.Fatalf("invalid advanced client config: %v", err)
	}

	advanced.On(fetchengo.EventAny, func(e fetchengo.Event) {
		fmt.Printf("event %s %s %s\n", e.Type, e.Method, e.URL)
	})

	res := advanced.Post(ctx, "/post", map[string]string{"hello": "world"}, &fetchengo.RequestOverride{
		Headers: fetchengo.Headers{"X-Trace": "example"},
		Timeout: 5 * time.Second,
		OnError: func(err *fetchengo.RequestError) {
			fmt.Printf("call failed with status %d\n", err.Status)
		},
	})
	if _, err := res.Wait(ctx); err != nil {
		log.Fatalf("advanced POST failed: %v", err)
	}
	fmt.Println("advanced POST finished:", res.IsFinished())

	// Abort a call that is still in flight.
	slow := advanced.Get(ctx, "/delay/10", nil)
	slow.Abort()
	if _, err := slow.Wait(ctx); fetchengo.IsAborted(err) {
		fmt.Println("slow GET aborted:", slow.IsAborted())
	}
}
