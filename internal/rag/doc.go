// Package rag implements the retrieval-augmented query router.
//
// Given a free-text question, the router:
//
//  1. Resolves the active model provider (re-read per query, never cached)
//  2. Classifies which knowledge bases are relevant (temperature-0 completion)
//  3. Embeds the question once
//  4. Fans the embedding out to the selected knowledge bases concurrently
//  5. Merges the results into one bounded, similarity-ordered set
//
// Pipeline:
//
//	Router.Query
//	     |
//	     v
//	ProviderSelector (app_settings.ai_provider, default on any failure)
//	     |
//	     v
//	classifyIntent (JSON array of KB ids; fallback to grants on parse failure)
//	     |
//	     v
//	Embedder (fatal on failure - no safe default embedding exists)
//	     |
//	     v
//	Searcher x |K| concurrent  (each degrades to empty on backend error)
//	     |
//	     v
//	flatten -> stable sort by similarity desc -> truncate to maxChunks
//
// Failure semantics are deliberate and asymmetric: classification and
// embedding provider failures abort the query because no valid ranking can
// exist without them, while a single knowledge base failing degrades to
// zero matches so one bad partition never takes down the whole answer.
package rag
