package topiclog

import "strings"

const keywordOverlapThreshold = 3

// IsDuplicate reports whether a candidate topic is too close to one
// already in the log. Two rules, checked per logged entry:
//
//  1. case-insensitive substring containment between the topics, in
//     either direction;
//  2. at least 3 of the candidate keywords appear (case-folded,
//     verbatim) in the entry's keyword set.
func IsDuplicate(topic string, keywords []string, l *Log) bool {
	candidate := strings.ToLower(topic)

	folded := make([]string, len(keywords))
	for i, k := range keywords {
		folded[i] = strings.ToLower(k)
	}

	for _, e := range l.GeneratedTopics {
		logged := strings.ToLower(e.Topic)
		if logged != "" && (strings.Contains(candidate, logged) || strings.Contains(logged, candidate)) {
			return true
		}

		loggedKeywords := make(map[string]bool, len(e.Keywords))
		for _, k := range e.Keywords {
			loggedKeywords[strings.ToLower(k)] = true
		}
		matches := 0
		for _, k := range folded {
			if loggedKeywords[k] {
				matches++
			}
		}
		if matches >= keywordOverlapThreshold {
			return true
		}
	}
	return false
}
