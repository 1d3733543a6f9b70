// Package balance fetches the balance record shown on the card.
//
// The remote API is a single unauthenticated GET returning JSON. Only three
// values are extracted, and all of them defensively: a missing or mistyped
// field degrades to an empty value rather than failing the fetch. Errors are
// typed so callers can tell an HTTP failure (*HTTPError) from a transport
// failure (*NetworkError) or an unparseable body (*DecodeError); each one
// formats itself as the message shown on the error panel.
package balance
