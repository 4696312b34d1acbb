package main

import (
	"fmt"
	"io"

	"mvdan.cc/xurls/v2"
)

// extractURLs pulls every http(s) URL out of free text, in order, without
// duplicates.
func extractURLs(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	re, err := xurls.StrictMatchingScheme("https?://")
	if err != nil {
		return nil, fmt.Errorf("failed to create regexp: %w", err)
	}

	var urls []string
	seen := make(map[string]struct{})
	for _, u := range re.FindAllString(string(data), -1) {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls, nil
}
