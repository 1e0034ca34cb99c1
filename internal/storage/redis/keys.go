package redis

import "github.com/mcoot/sweepbot/internal/model"

// keys builds the names used by a Storage. Games live under
// <prefix>:game:<id>; the recency index is a sorted set of game IDs scored
// by last update in unix milliseconds.
type keys struct {
	prefix string
}

func newKeys(prefix string) keys {
	if prefix == "" {
		prefix = "sweep"
	}
	return keys{prefix: prefix}
}

func (k keys) game(id model.GameID) string {
	return k.prefix + ":game:" + string(id)
}

func (k keys) recent() string {
	return k.prefix + ":games"
}
