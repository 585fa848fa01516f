// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
// Callers bind the result and wrap it in '%' in SQL with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
