// Package pipeline provides the orchestration of an indexing run.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Walk the archive against the schema registry
//  2. Publish every accepted asset into the sink
//  3. Write collection.json and, if needed, warnings.json
//  4. Mirror the catalog into Postgres (optional)
//
// # Basic Usage
//
//	manager, err := pipeline.NewManager(settings, func(event progress.Event) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := manager.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The stages can also be driven one at a time with Index, Publish,
// WriteCatalog and Export, which is how the terminal UI reports them.
//
// # Retry Logic
//
// Failed sink writes are retried with exponential backoff, configurable via
// settings.WriteMaxRetries and settings.WriteRetryCooldown.
package pipeline
