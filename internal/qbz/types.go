package qbz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PingResponse mirrors the payload returned by /api/ping.
type PingResponse struct {
	OK      bool   `json:"ok"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PlaybackState is the transport state reported by /api/now-playing.
type PlaybackState struct {
	IsPlaying bool    `json:"is_playing"`
	Position  float64 `json:"position"`
	Duration  float64 `json:"duration"`
	TrackID   int64   `json:"track_id"`
	Volume    float64 `json:"volume"`
}

// Track is the denormalized metadata of a queue entry.
type Track struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	DurationSecs int    `json:"duration_secs"`
	ArtworkURL   string `json:"artwork_url,omitempty"`
	IsLocal      bool   `json:"is_local,omitempty"`
	Streamable   *bool  `json:"streamable,omitempty"`
}

// NowPlayingResponse mirrors /api/now-playing.
type NowPlayingResponse struct {
	Playback PlaybackState `json:"playback"`
	Track    *Track        `json:"track"`
}

// QueueResponse mirrors /api/queue. Repeat is kept as the raw wire value;
// callers normalize it with ParseRepeatMode.
type QueueResponse struct {
	CurrentTrack *Track  `json:"current_track"`
	CurrentIndex *int    `json:"current_index"`
	Upcoming     []Track `json:"upcoming"`
	History      []Track `json:"history"`
	Shuffle      bool    `json:"shuffle"`
	Repeat       string  `json:"repeat"`
	TotalTracks  int     `json:"total_tracks"`
}

// ModeResponse is the echo returned by the shuffle and repeat endpoints.
type ModeResponse struct {
	Shuffle bool   `json:"shuffle"`
	Repeat  string `json:"repeat"`
}

// QueueAddResponse mirrors /api/queue/add.
type QueueAddResponse struct {
	Success     bool `json:"success"`
	QueueLength int  `json:"queueLength"`
}

// RepeatMode is the three-valued repeat cycle.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the display name used by the queue endpoint.
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Off"
	}
}

// Wire returns the lowercase name the repeat endpoint expects.
func (m RepeatMode) Wire() string {
	return strings.ToLower(m.String())
}

// Next advances the cycle Off -> All -> One -> Off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// ParseRepeatMode maps a wire value onto a RepeatMode. Anything other than
// "all" or "one" (case-insensitive) is treated as RepeatOff.
func ParseRepeatMode(value string) RepeatMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "all":
		return RepeatAll
	case "one":
		return RepeatOne
	default:
		return RepeatOff
	}
}

// SearchPage is one paginated result section of /api/search/all.
type SearchPage[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ImageSet lists artwork URLs in increasing size.
type ImageSet struct {
	Small     string `json:"small,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Large     string `json:"large,omitempty"`
}

// NamedRef is an {id, name} reference used by albums.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchAlbum is an album search hit.
type SearchAlbum struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      NamedRef  `json:"artist"`
	Image       *ImageSet `json:"image,omitempty"`
	TracksCount int       `json:"tracks_count,omitempty"`
	Hires       bool      `json:"hires,omitempty"`
}

// SearchTrack is a track search hit. Artist and album come in more than one
// shape depending on the catalogue, so they are decoded lazily.
type SearchTrack struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Performer *NamedRef       `json:"performer,omitempty"`
	RawArtist json.RawMessage `json:"artist,omitempty"`
	RawAlbum  json.RawMessage `json:"album,omitempty"`
	Duration  int             `json:"duration"`
}

// ArtistName resolves the performer or artist field.
func (t SearchTrack) ArtistName() string {
	if t.Performer != nil && t.Performer.Name != "" {
		return t.Performer.Name
	}
	return stringOrName(t.RawArtist, "name")
}

// AlbumTitle resolves the album field, which is either a string or an object.
func (t SearchTrack) AlbumTitle() string {
	return stringOrName(t.RawAlbum, "title")
}

// ArtworkURL returns the small album image when the album is an object.
func (t SearchTrack) ArtworkURL() string {
	var album struct {
		Image *ImageSet `json:"image"`
	}
	if len(t.RawAlbum) == 0 || json.Unmarshal(t.RawAlbum, &album) != nil || album.Image == nil {
		return ""
	}
	if album.Image.Small != "" {
		return album.Image.Small
	}
	return album.Image.Thumbnail
}

// QueueTrack converts a search hit into the payload /api/queue/add expects.
func (t SearchTrack) QueueTrack() Track {
	return Track{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       t.ArtistName(),
		Album:        t.AlbumTitle(),
		DurationSecs: t.Duration,
		ArtworkURL:   t.ArtworkURL(),
	}
}

// SearchArtist is an artist search hit.
type SearchArtist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AlbumsCount int    `json:"albums_count,omitempty"`
}

// SearchResponse mirrors /api/search/all.
type SearchResponse struct {
	Albums  SearchPage[SearchAlbum]  `json:"albums"`
	Tracks  SearchPage[SearchTrack]  `json:"tracks"`
	Artists SearchPage[SearchArtist] `json:"artists"`
}

// FavoriteType selects one of the user's favorites lists.
type FavoriteType string

const (
	FavoriteAlbums  FavoriteType = "albums"
	FavoriteTracks  FavoriteType = "tracks"
	FavoriteArtists FavoriteType = "artists"
)

// ParseFavoriteType accepts albums, tracks or artists, case-insensitively.
func ParseFavoriteType(value string) (FavoriteType, error) {
	switch t := FavoriteType(strings.ToLower(strings.TrimSpace(value))); t {
	case FavoriteAlbums, FavoriteTracks, FavoriteArtists:
		return t, nil
	default:
		return "", fmt.Errorf("unknown favorite type %q (want albums, tracks or artists)", value)
	}
}

// AlbumRef is the album object embedded in track listings.
type AlbumRef struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Image *ImageSet `json:"image,omitempty"`
}

// FavoriteTrack is an entry of the tracks favorites list.
type FavoriteTrack struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Performer  NamedRef `json:"performer"`
	Album      AlbumRef `json:"album"`
	Duration   int      `json:"duration"`
	Hires      bool     `json:"hires,omitempty"`
	Streamable bool     `json:"streamable"`
}

// QueueTrack converts a favorite into the payload /api/queue/add expects.
func (t FavoriteTrack) QueueTrack() Track {
	streamable := t.Streamable
	return Track{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       t.Performer.Name,
		Album:        t.Album.Title,
		DurationSecs: t.Duration,
		ArtworkURL:   t.Album.Image.preferred(),
		Streamable:   &streamable,
	}
}

// Favorites is one favorites list. Only the slice matching Type is filled.
type Favorites struct {
	Type    FavoriteType
	Albums  []SearchAlbum
	Tracks  []FavoriteTrack
	Artists []SearchArtist
	Total   int
}

// Len returns the number of entries in the list.
func (f *Favorites) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Albums) + len(f.Tracks) + len(f.Artists)
}

// AlbumTrack is a track of an album detail listing.
type AlbumTrack struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Duration    int       `json:"duration"`
	TrackNumber int       `json:"track_number"`
	Performer   *NamedRef `json:"performer,omitempty"`
	Hires       bool      `json:"hires,omitempty"`
	Streamable  bool      `json:"streamable"`
}

// AlbumDetail mirrors /api/album/:id.
type AlbumDetail struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      NamedRef  `json:"artist"`
	Image       *ImageSet `json:"image,omitempty"`
	TracksCount int       `json:"tracks_count,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	Hires       bool      `json:"hires,omitempty"`
	ReleaseDate string    `json:"release_date_original,omitempty"`
	Genre       *struct {
		Name string `json:"name"`
	} `json:"genre,omitempty"`
	Tracks struct {
		Items []AlbumTrack `json:"items"`
	} `json:"tracks"`
}

// Year returns the release year, or "" when unknown.
func (a AlbumDetail) Year() string {
	year, _, _ := strings.Cut(a.ReleaseDate, "-")
	return year
}

// QueueTrack converts one of the album's tracks into a queue payload. The
// track performer wins over the album artist.
func (a AlbumDetail) QueueTrack(t AlbumTrack) Track {
	artist := a.Artist.Name
	if t.Performer != nil && t.Performer.Name != "" {
		artist = t.Performer.Name
	}
	streamable := t.Streamable
	return Track{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       artist,
		Album:        a.Title,
		DurationSecs: t.Duration,
		ArtworkURL:   a.Image.preferred(),
		Streamable:   &streamable,
	}
}

// ArtistAlbum is an album of an artist detail listing.
type ArtistAlbum struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Image       *ImageSet `json:"image,omitempty"`
	ReleaseDate string    `json:"release_date_original,omitempty"`
	Hires       bool      `json:"hires,omitempty"`
}

// ArtistDetail mirrors /api/artist/:id.
type ArtistDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Picture     string `json:"picture,omitempty"`
	AlbumsCount int    `json:"albums_count,omitempty"`
	Biography   *struct {
		Content string `json:"content"`
	} `json:"biography,omitempty"`
	Albums struct {
		Items []ArtistAlbum `json:"items"`
	} `json:"albums"`
}

// Bio returns the biography text, or "".
func (a ArtistDetail) Bio() string {
	if a.Biography == nil {
		return ""
	}
	return a.Biography.Content
}

// preferred picks the large image, falling back to smaller ones.
func (i *ImageSet) preferred() string {
	if i == nil {
		return ""
	}
	for _, u := range []string{i.Large, i.Small, i.Thumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

func stringOrName(raw json.RawMessage, field string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}
