package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/session"
	"github.com/vicrodh/qbz-control/internal/state"
)

// ErrNotPaired is returned by commands that need a stored session.
var ErrNotPaired = errors.New("not paired: run `qbzctl pair` first")

// Pair probes the device described by p and stores the session only if the
// device accepts remote control.
func Pair(ctx context.Context, env *Env, p session.Pairing) (state.Status, error) {
	sess := p.Session()
	status, err := env.Engine.Connect(ctx, sess)
	if err != nil {
		return status, err
	}
	if status.DeviceName != "" {
		sess.DeviceName = status.DeviceName
	}
	if err := env.Sessions.Save(sess); err != nil {
		return status, fmt.Errorf("save session: %w", err)
	}
	env.Logger.Infow("paired", "address", sess.Address, "device", sess.DeviceName)
	return status, nil
}

// Unpair removes the stored session and disconnects.
func Unpair(env *Env) error {
	return env.Engine.ClearSession(env.Sessions)
}

// Status probes the stored session and reports the resulting status.
func Status(ctx context.Context, env *Env) (state.Status, error) {
	sess := env.Sessions.Load()
	if !sess.Complete() {
		return env.Engine.Store().Status(), ErrNotPaired
	}
	return env.Engine.Connect(ctx, sess)
}

// PairingPayload returns the stored session as a pairing document, for
// handing the pairing to another client.
func PairingPayload(env *Env) (string, error) {
	sess := env.Sessions.Load()
	if !sess.Complete() {
		return "", ErrNotPaired
	}
	return session.PairingFor(sess).Payload()
}

// Search connects with the stored session and runs a catalog search.
func Search(ctx context.Context, env *Env, query string) (*qbz.SearchResponse, error) {
	if err := connect(ctx, env); err != nil {
		return nil, err
	}
	res, err := env.Engine.Actions().Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// Favorites connects with the stored session and lists one favorites type.
func Favorites(ctx context.Context, env *Env, typ qbz.FavoriteType) (*qbz.Favorites, error) {
	if err := connect(ctx, env); err != nil {
		return nil, err
	}
	favs, err := env.Engine.Actions().Favorites(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	return favs, nil
}

// RemoveFavorite connects with the stored session and removes one favorite.
func RemoveFavorite(ctx context.Context, env *Env, typ qbz.FavoriteType, itemID string) error {
	if err := connect(ctx, env); err != nil {
		return err
	}
	if err := env.Engine.Actions().RemoveFavorite(ctx, typ, itemID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Album connects with the stored session and loads an album.
func Album(ctx context.Context, env *Env, albumID string) (*qbz.AlbumDetail, error) {
	if err := connect(ctx, env); err != nil {
		return nil, err
	}
	album, err := env.Engine.Actions().Album(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("album: %w", err)
	}
	return album, nil
}

// Artist connects with the stored session and loads an artist.
func Artist(ctx context.Context, env *Env, artistID string) (*qbz.ArtistDetail, error) {
	if err := connect(ctx, env); err != nil {
		return nil, err
	}
	artist, err := env.Engine.Actions().Artist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("artist: %w", err)
	}
	return artist, nil
}

// writeClipboard is swapped in tests; CI runners have no clipboard.
var writeClipboard = clipboard.WriteAll

// CopyToken puts the stored session's API token on the system clipboard.
func CopyToken(env *Env) error {
	sess := env.Sessions.Load()
	if !sess.Complete() {
		return ErrNotPaired
	}
	if err := writeClipboard(sess.Token); err != nil {
		return fmt.Errorf("copy token: %w", err)
	}
	env.Logger.Infow("token copied")
	return nil
}

func connect(ctx context.Context, env *Env) error {
	_, err := Status(ctx, env)
	return err
}
