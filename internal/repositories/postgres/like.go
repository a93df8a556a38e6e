package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside a LIKE/ILIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
