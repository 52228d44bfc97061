// Package ranking orders validated streams for output.
//
// Entries are grouped by channel name. Within a channel the fastest stream
// comes first, ties keeping first-seen order, and at most K streams are kept.
// Channels follow the order of the template file; channels the template does
// not name come after all listed channels, in first-seen order.
//
// The single-endpoint playlist is the K=1 view of the same ranking, exposed
// as Ranking.Fastest.
package ranking
