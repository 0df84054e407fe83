package skills

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

// knownSites maps spoken names to URLs so "open youtube" needs no lookup.
var knownSites = map[string]string{
	"youtube":       "https://www.youtube.com",
	"google":        "https://www.google.com",
	"gmail":         "https://mail.google.com",
	"github":        "https://github.com",
	"reddit":        "https://www.reddit.com",
	"twitter":       "https://twitter.com",
	"spotify":       "https://open.spotify.com",
	"wikipedia":     "https://www.wikipedia.org",
	"maps":          "https://maps.google.com",
	"stackoverflow": "https://stackoverflow.com",
}

func handlePlayYouTube(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Opener == nil {
		return []string{col.NotConfigured("browser")}, nil
	}
	query := m.Param("query")
	target := "https://www.youtube.com"
	spoken := fmt.Sprintf("Opening YouTube, %s.", col.hon())
	if query != "" {
		target = "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		spoken = fmt.Sprintf("Playing %s on YouTube, %s.", query, col.hon())
	}
	if err := col.Opener.OpenURL(target); err != nil {
		return nil, fmt.Errorf("open youtube: %w", err)
	}
	return []string{spoken}, nil
}

func handlePlaySpotify(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Opener == nil {
		return []string{col.NotConfigured("browser")}, nil
	}
	song := m.Param("song")
	target := "https://open.spotify.com"
	spoken := fmt.Sprintf("Opening Spotify, %s.", col.hon())
	if song != "" {
		target = "https://open.spotify.com/search/" + url.PathEscape(song)
		spoken = fmt.Sprintf("Searching Spotify for %s, %s.", song, col.hon())
	}
	if err := col.Opener.OpenURL(target); err != nil {
		return nil, fmt.Errorf("open spotify: %w", err)
	}
	return []string{spoken}, nil
}

func handleOpenSite(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Opener == nil {
		return []string{col.NotConfigured("browser")}, nil
	}
	target := strings.TrimSpace(m.Param("target"))
	if target == "" {
		return []string{fmt.Sprintf("What would you like me to open, %s?", col.hon())}, nil
	}

	name := strings.TrimSuffix(strings.TrimSpace(target), " website")
	dest, ok := knownSites[name]
	if !ok {
		// Fall back to treating the target as a bare domain.
		host := strings.ReplaceAll(name, " ", "")
		if !strings.Contains(host, ".") {
			host += ".com"
		}
		dest = "https://" + host
	}
	if _, err := url.ParseRequestURI(dest); err != nil {
		return []string{fmt.Sprintf("I couldn't make sense of that address, %s.", col.hon())}, nil
	}
	if err := col.Opener.OpenURL(dest); err != nil {
		return nil, fmt.Errorf("open site: %w", err)
	}
	return []string{fmt.Sprintf("Opening %s, %s.", name, col.hon())}, nil
}

func handleWebSearch(_ context.Context, col *Collaborators, m *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Opener == nil {
		return []string{col.NotConfigured("browser")}, nil
	}
	query := m.Param("query")
	if query == "" {
		return []string{fmt.Sprintf("What should I search for, %s?", col.hon())}, nil
	}
	dest := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := col.Opener.OpenURL(dest); err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	return []string{fmt.Sprintf("Searching the web for %s, %s.", query, col.hon())}, nil
}

func handleNews(_ context.Context, col *Collaborators, _ *nlu.Match, _ *session.Session) ([]string, error) {
	if col.Opener == nil {
		return []string{col.NotConfigured("browser")}, nil
	}
	if err := col.Opener.OpenURL("https://news.google.com"); err != nil {
		return nil, fmt.Errorf("open news: %w", err)
	}
	return []string{fmt.Sprintf("Bringing up the latest headlines, %s.", col.hon())}, nil
}
