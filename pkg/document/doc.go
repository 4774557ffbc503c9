// Package document contains the value types that flow through bulkqueue.
//
// A [Document] is one pending record addressed to a collection (index) with a
// record kind and an opaque body. The queue never inspects the body; it is
// handed to the backend verbatim. A [Batch] is the ordered group of documents
// submitted in one bulk call.
package document
