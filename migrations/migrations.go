// Package migrations embeds the schema scripts for each store.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed mysql/*.sql clickhouse/*.sql
var files embed.FS

// Statements returns every statement under dir ("mysql" or "clickhouse"), in
// file name order.
func Statements(dir string) ([]string, error) {
	names, err := fs.Glob(files, dir+"/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Split(string(b))...)
	}
	return out, nil
}

// Split breaks a script on ";" and drops empty statements.
func Split(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
