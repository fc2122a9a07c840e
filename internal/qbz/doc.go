// Package qbz provides an HTTP and websocket client for the QBZ desktop
// player's remote-control API.
//
// # Overview
//
// The client is a thin, stateless transport. It issues one request per call,
// decodes the JSON reply into the types in types.go and returns. Caching,
// retry policy and refresh cadence belong to the engine package.
//
// # Authentication
//
// Every request carries the paired access token in the X-API-Key header. The
// push channel passes the same token as the "token" query parameter because
// browsers and most websocket stacks cannot set custom headers on upgrade.
//
// # Endpoints
//
//   - GET  /api/ping: liveness probe, returns device name and version
//   - GET  /api/now-playing: playback state and current track
//   - GET  /api/queue: current track, upcoming, history, shuffle, repeat
//   - POST /api/playback/{play,pause,next,previous,seek,volume}
//   - POST /api/queue/{add,play,shuffle,repeat}
//   - POST /api/album/play
//   - GET  /api/search/all
//   - GET  /api/ws: websocket push channel
//
// # Errors
//
// Non-2xx responses become *APIError carrying the response body as message.
// Transport failures are wrapped with "execute request: ...", malformed JSON
// with "decode response: ...".
//
// # Push Channel
//
// OpenPush returns a PushChannel whose Signals channel receives one value per
// inbound frame, coalesced into a buffer of one. Payloads are ignored. The
// channel is closed when the socket ends for any reason, which is how callers
// detect a lost push connection.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package qbz
