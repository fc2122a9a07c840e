// Package session persists the paired device's address and access token.
//
// The session lives in a small TOML file (default
// ~/.config/qbzctl/session.toml, mode 0600). Load never fails: a missing or
// unreadable file yields an empty session, which the engine treats as
// "missing configuration". Save writes a temp file and renames it over the
// target so a crash can't leave a half-written session behind.
//
// Pairing payloads are the JSON documents shown as a QR code by the player:
//
//	{"url":"http://192.168.1.10:8182","token":"...","name":"Living Room","version":"1.2.0"}
//
// Watch lets a running client notice when another process (qbzctl pair or
// unpair) rewrites the file.
package session
