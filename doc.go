// Package fetchengo provides an eventful, abortable HTTP client wrapper that
// normalizes request dispatch around a small set of primitives:
//
//   - Verb methods (Get/Post/Put/Patch/Delete/Options) returning a Result
//     handle that can be awaited, inspected and aborted after dispatch
//   - Default headers and an opaque client state, snapshotted per call
//   - Lifecycle hooks (ModifyOptions, OnBeforeReq, OnAfterReq, OnError)
//   - A typed event bus with wildcard subscription (fetch-before,
//     fetch-after, fetch-response, fetch-error, fetch-abort, ...)
//   - One normalized error shape for every failure: upstream HTTP statuses
//     pass through, 499 is reserved for abort/timeout, 999 for anything
//     unclassifiable
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – a validated Config plus functional options
//   - Safe concurrent use of a single *Client instance
//   - Callers never branch on transport-specific error shapes
//
// Typical usage:
//
//	client, err := fetchengo.New(fetchengo.Config{
//	    BaseURL: "https://api.example.com",
//	    Type:    fetchengo.PayloadJSON,
//	    Timeout: 5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.On(fetchengo.EventError, func(e fetchengo.Event) { log.Println(e.URL) })
//
//	res := client.Get(ctx, "/data", nil)
//	value, err := res.Wait(ctx)
//
// Retries, caching and de-duplication are deliberately out of scope: every
// call resolves to a single parsed value or a single normalized error, and
// the caller has the normalized status to decide on a retry.
package fetchengo
