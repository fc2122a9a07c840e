package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/vicrodh/qbz-control/internal/app"
	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/session"
)

func newPairCmd(flags *globalFlags) *cobra.Command {
	var url, token, payload string
	cmd := &cobra.Command{
		Use:   "pair [payload]",
		Short: "Pair with a player and store the session",
		Long: "Pair with a player, either from the JSON payload shown in its pairing QR code\n" +
			"or from --url and --token. The session is stored only if the player accepts\n" +
			"remote control.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				payload = args[0]
			}
			p, err := pairingFromFlags(url, token, payload)
			if err != nil {
				return err
			}
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			status, err := app.Pair(cmd.Context(), env, p)
			if err != nil {
				return fmt.Errorf("%s: %w", status.Line(), err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), status.Line())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session saved to %s\n", env.Sessions.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "player base URL, e.g. http://192.168.1.20:8182")
	cmd.Flags().StringVar(&token, "token", "", "remote control API token")
	cmd.Flags().StringVar(&payload, "payload", "", "pairing payload JSON")
	return cmd
}

// pairingFromFlags builds a pairing from either a payload or a URL and
// token pair.
func pairingFromFlags(url, token, payload string) (session.Pairing, error) {
	if strings.TrimSpace(payload) != "" {
		if url != "" || token != "" {
			return session.Pairing{}, errors.New("use either a payload or --url/--token, not both")
		}
		return session.ParsePairingPayload(payload)
	}
	p := session.Pairing{URL: strings.TrimSpace(url), Token: strings.TrimSpace(token)}
	if p.URL == "" || p.Token == "" {
		return session.Pairing{}, errors.New("a pairing payload or both --url and --token are required")
	}
	return p, nil
}

func newUnpairCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unpair",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := app.Unpair(env); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", env.Sessions.Path())
			return nil
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the paired player and print the connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			status, err := app.Status(cmd.Context(), env)
			if errors.Is(err, app.ErrNotPaired) {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), status.Line())
			return err
		},
	}
}

func newQRCmd(flags *globalFlags) *cobra.Command {
	var textOnly bool
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Print the stored session as a pairing QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			payload, err := app.PairingPayload(env)
			if err != nil {
				return err
			}
			writePairing(cmd.OutOrStdout(), payload, textOnly)
			return nil
		},
	}
	cmd.Flags().BoolVar(&textOnly, "text", false, "print only the payload JSON")
	return cmd
}

func writePairing(w io.Writer, payload string, textOnly bool) {
	if !textOnly {
		qrterminal.GenerateHalfBlock(payload, qrterminal.L, w)
	}
	_, _ = fmt.Fprintln(w, payload)
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the player's catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			res, err := app.Search(cmd.Context(), env, strings.Join(args, " "))
			if err != nil {
				return err
			}
			writeSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func writeSearch(w io.Writer, res *qbz.SearchResponse) {
	if res == nil || (len(res.Albums.Items) == 0 && len(res.Tracks.Items) == 0) {
		_, _ = fmt.Fprintln(w, "no results")
		return
	}
	for _, a := range res.Albums.Items {
		_, _ = fmt.Fprintf(w, "album  %-12s  %s · %s\n", a.ID, a.Title, a.Artist.Name)
	}
	for _, t := range res.Tracks.Items {
		_, _ = fmt.Fprintf(w, "track  %-12d  %s · %s\n", t.ID, t.Title, t.ArtistName())
	}
}

func newFavoritesCmd(flags *globalFlags) *cobra.Command {
	var remove string
	cmd := &cobra.Command{
		Use:   "favorites [albums|tracks|artists]",
		Short: "List favorites, or remove one with --remove",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := qbz.FavoriteAlbums
			if len(args) == 1 {
				var err error
				if typ, err = qbz.ParseFavoriteType(args[0]); err != nil {
					return err
				}
			}
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if remove != "" {
				if err := app.RemoveFavorite(cmd.Context(), env, typ, remove); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", remove, typ)
				return nil
			}
			favs, err := app.Favorites(cmd.Context(), env, typ)
			if err != nil {
				return err
			}
			writeFavorites(cmd.OutOrStdout(), favs)
			return nil
		},
	}
	cmd.Flags().StringVar(&remove, "remove", "", "remove the favorite with this id")
	return cmd
}

func writeFavorites(w io.Writer, favs *qbz.Favorites) {
	if favs.Len() == 0 {
		_, _ = fmt.Fprintln(w, "no favorites")
		return
	}
	for _, a := range favs.Albums {
		_, _ = fmt.Fprintf(w, "album   %-12s  %s · %s\n", a.ID, a.Title, a.Artist.Name)
	}
	for _, t := range favs.Tracks {
		_, _ = fmt.Fprintf(w, "track   %-12d  %s · %s  %s\n", t.ID, t.Title, t.Performer.Name, trackLength(t.Duration))
	}
	for _, a := range favs.Artists {
		_, _ = fmt.Fprintf(w, "artist  %-12d  %s\n", a.ID, a.Name)
	}
}

func newAlbumCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "album <id>",
		Short: "Show an album and its tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			album, err := app.Album(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			writeAlbum(cmd.OutOrStdout(), album)
			return nil
		},
	}
}

func writeAlbum(w io.Writer, a *qbz.AlbumDetail) {
	header := a.Title + " · " + a.Artist.Name
	if year := a.Year(); year != "" {
		header += " (" + year + ")"
	}
	if a.Hires {
		header += "  Hi-Res"
	}
	_, _ = fmt.Fprintln(w, header)
	if a.Genre != nil && a.Genre.Name != "" {
		_, _ = fmt.Fprintln(w, a.Genre.Name)
	}
	for _, t := range a.Tracks.Items {
		line := fmt.Sprintf("%3d. %s", t.TrackNumber, t.Title)
		if t.Performer != nil && t.Performer.Name != a.Artist.Name {
			line += " · " + t.Performer.Name
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n", line, trackLength(t.Duration))
	}
}

func newArtistCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "artist <id>",
		Short: "Show an artist and their albums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			artist, err := app.Artist(cmd.Context(), env, args[0])
			if err != nil {
				return err
			}
			writeArtist(cmd.OutOrStdout(), artist)
			return nil
		},
	}
}

// artistBioLimit caps the biography excerpt.
const artistBioLimit = 300

func writeArtist(w io.Writer, a *qbz.ArtistDetail) {
	_, _ = fmt.Fprintln(w, a.Name)
	if a.AlbumsCount > 0 {
		_, _ = fmt.Fprintf(w, "%d albums\n", a.AlbumsCount)
	}
	if bio := a.Bio(); bio != "" {
		if r := []rune(bio); len(r) > artistBioLimit {
			bio = string(r[:artistBioLimit]) + "..."
		}
		_, _ = fmt.Fprintln(w, bio)
	}
	for _, al := range a.Albums.Items {
		year, _, _ := strings.Cut(al.ReleaseDate, "-")
		_, _ = fmt.Fprintf(w, "album  %-12s  %s %s\n", al.ID, al.Title, year)
	}
}

func newCopyTokenCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "copy-token",
		Short: "Copy the stored API token to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(cmd.Context(), flags.options(true))
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := app.CopyToken(env); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token copied")
			return nil
		},
	}
}

// trackLength formats seconds as m:ss.
func trackLength(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
