// Package sender provides the backend collaborator that bulkqueue submits
// batches to.
//
// The queue depends only on the [Submitter] interface. [HTTPSender] is the
// bundled implementation: it encodes a batch as an Elasticsearch-compatible
// _bulk NDJSON body and POSTs it to {ServiceURL}/_bulk.
//
// # Usage
//
//	snd := sender.NewHTTPSender(httpClient, logger, sender.Endpoint{
//	    ServiceURL: "http://localhost:9200",
//	    AuthKey:    "api-key",
//	})
//
//	if err := snd.Submit(ctx, batch); err != nil {
//	    return err
//	}
//
// # Custom Submitters
//
// Implement Submitter (or wrap a function with SubmitterFunc) to submit to
// alternative destinations. Submitters must not retry on behalf of the
// queue; a returned error is surfaced to the caller as-is.
package sender
