package session

import "regexp"

// crawler fingerprints shared by the major search engines
var searchBotPattern = regexp.MustCompile(`(?i)bot|google|baidu|bing|msn|duckduckbot|teoma|slurp|yandex`)

// IsSearchBot detects whether a user agent belongs to a known search
// engine crawler. An empty user agent is not a bot.
func IsSearchBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	return searchBotPattern.MatchString(userAgent)
}
