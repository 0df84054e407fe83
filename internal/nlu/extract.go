package nlu

import (
	"regexp"
	"strings"
)

// Filler tokens speech-to-text captures that never belong in a parameter.
var fillers = map[string]bool{
	"um": true, "uh": true, "like": true, "you know": true, "so": true, "well": true,
}

var itemSplitRe = regexp.MustCompile(
	`\s+and then\s+|\s+then\s+|\s+after that\s+|\s+followed by\s+|\s+also\s+|\s+plus\s+|\s+and\s+|,\s*|\n+|\d+\.\s*`)

// SplitItems breaks a dictated list on natural-speech delimiters ("and then",
// "then", "also", commas) and drops filler tokens and fragments too short to
// be real items.
func SplitItems(text string) []string {
	text = strings.ReplaceAll(text, " comma ", ", ")

	var items []string
	for _, part := range itemSplitRe.Split(text, -1) {
		part = strings.TrimSpace(part)
		if len(part) <= 2 || fillers[strings.ToLower(part)] {
			continue
		}
		items = append(items, part)
	}
	return items
}

// afterAny returns the trimmed text following the first phrase that occurs in
// q, filler-filtered, or "" when none matches or nothing follows.
func afterAny(q string, phrases ...string) string {
	for _, p := range phrases {
		idx := strings.Index(q, p)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(q[idx+len(p):])
		rest = stripFillers(rest)
		if rest != "" {
			return rest
		}
	}
	return ""
}

func stripFillers(s string) string {
	words := strings.Fields(s)
	out := words[:0]
	for _, w := range words {
		if fillers[w] {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func digits(q string) string {
	var b strings.Builder
	for _, r := range q {
		if '0' <= r && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var youtubeRe = regexp.MustCompile(`play (.+?) on youtube`)

func extractYouTube(q string, m *Match) {
	if sub := youtubeRe.FindStringSubmatch(q); sub != nil {
		m.setParam("query", stripFillers(sub[1]))
		return
	}
	if v := afterAny(q, "play on youtube "); v != "" {
		m.setParam("query", v)
	}
}

var spotifyRe = regexp.MustCompile(`play (?:song|music)?(?: on spotify)?(?: called| named)?\s*(.*)`)

func extractSpotify(q string, m *Match) {
	if sub := spotifyRe.FindStringSubmatch(q); sub != nil {
		song := strings.TrimSpace(strings.TrimSuffix(sub[1], "on spotify"))
		song = stripFillers(song)
		if song != "" {
			m.setParam("song", song)
		}
	}
}

func extractSearch(q string, m *Match) {
	query := q
	for _, phrase := range []string{"search on google for", "search for", "search google for", "look up", "google", "search"} {
		query = strings.Replace(query, phrase, "", 1)
	}
	query = stripFillers(strings.TrimSpace(query))
	if query != "" {
		m.setParam("query", query)
	}
}

func extractTask(q string, m *Match) {
	t := afterAny(q, "add task to ", "add a task to ", "add task ", "add a task ", "new task ")
	if t == "" {
		return
	}
	for _, p := range []string{"high", "medium", "low"} {
		if strings.HasSuffix(t, " with "+p+" priority") {
			m.setParam("priority", p)
			t = strings.TrimSuffix(t, " with "+p+" priority")
			break
		}
	}
	m.setParam("task", strings.TrimSpace(t))
}

func extractSchedule(q string, m *Match) {
	m.setParam("offset", dayOffset(q))
	if plans := afterAny(q, "schedule for today ", "schedule for tomorrow ", "plan for today ", "plan for tomorrow "); plans != "" {
		m.Items = SplitItems(plans)
	}
}
