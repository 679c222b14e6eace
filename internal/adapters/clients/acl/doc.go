// Package acl keeps the remote posts endpoint out of the quote domain.
//
// The remote speaks in posts: {id, userId, title, body}. Quotes have no
// identity and carry a category instead of a body. [RemoteQuoteClient] is the
// only thing that knows both shapes; it implements ports.RemoteQuotes and the
// optional health check for the remote.
//
// # Translation
//
// Fetch maps title to Text and the first whitespace-delimited token of body to
// Category, or domain.FallbackCategory for a blank body. Posts with a blank
// title are dropped. Push sends {"title": text, "body": category, "userId": n};
// the remote may echo an id, which does not mean it stored the post.
//
// # Errors
//
// A non-2xx answer, a transport failure or an undecodable body becomes a
// [domain.RemoteError]. It carries the HTTP status when there was one,
// including the last 5xx of an exhausted retry loop. An open circuit becomes a
// [domain.UnavailableError].
package acl
