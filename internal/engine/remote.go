package engine

//go:generate mockgen -destination=mocks/mock_remote.go -package=mocks -source=remote.go Remote

import (
	"context"
	"time"

	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/session"
)

// Remote is the device API the engine drives.
type Remote interface {
	Ping(ctx context.Context) (*qbz.PingResponse, error)
	NowPlaying(ctx context.Context) (*qbz.NowPlayingResponse, error)
	Queue(ctx context.Context) (*qbz.QueueResponse, error)
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Seek(ctx context.Context, position float64) error
	SetVolume(ctx context.Context, volume float64) error
	AddToQueue(ctx context.Context, track qbz.Track) (*qbz.QueueAddResponse, error)
	PlayQueueIndex(ctx context.Context, index int) error
	PlayAlbum(ctx context.Context, albumID string) error
	SetShuffle(ctx context.Context, enabled bool) (*qbz.ModeResponse, error)
	SetRepeat(ctx context.Context, mode string) (*qbz.ModeResponse, error)
	Search(ctx context.Context, query string) (*qbz.SearchResponse, error)
	Favorites(ctx context.Context, typ qbz.FavoriteType) (*qbz.Favorites, error)
	RemoveFavorite(ctx context.Context, typ qbz.FavoriteType, itemID string) error
	Album(ctx context.Context, albumID string) (*qbz.AlbumDetail, error)
	Artist(ctx context.Context, artistID string) (*qbz.ArtistDetail, error)
	OpenPush(ctx context.Context) (qbz.PushChannel, error)
}

var _ Remote = (*qbz.Client)(nil)

// RemoteFactory builds a Remote for a session.
type RemoteFactory func(session.Session) (Remote, error)

// ClientFactory returns a RemoteFactory backed by qbz.Client.
func ClientFactory(timeout time.Duration) RemoteFactory {
	return func(s session.Session) (Remote, error) {
		client, err := qbz.NewClient(s.Address, s.Token, timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
