package main

import "strings"

// allowedHosts are matched as plain substrings of the submitted URL. The
// check scopes requests to one platform; it does not parse the URL.
var allowedHosts = []string{"youtube.com", "youtu.be", "m.youtube.com"}

func isAllowedVideoURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	for _, host := range allowedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}
