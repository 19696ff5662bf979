package parse

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op identifies a line rewrite operation. The growing body of per-name
// and per-source fixups is expressed as data keyed by (source, subject)
// instead of code, so new cases can ship as configuration.
type Op string

const (
	// OpReplaceExact replaces a line equal to Match with With.
	OpReplaceExact Op = "replace_exact"
	// OpReplaceContains replaces occurrences of Match inside a line.
	OpReplaceContains Op = "replace_contains"
	// OpReplaceLine replaces the whole line when it contains Match.
	OpReplaceLine Op = "replace_line"
	// OpRemoveLine removes a line equal to Match.
	OpRemoveLine Op = "remove_line"
	// OpRemoveContains removes a line containing Match.
	OpRemoveContains Op = "remove_contains"
	// OpRemoveNext keeps a line containing Match and removes the Count
	// lines following it.
	OpRemoveNext Op = "remove_next"
	// OpInsertBefore inserts With before the last line equal to Match,
	// Offset extra lines earlier; only that one match is rewritten.
	OpInsertBefore Op = "insert_before"
	// OpInsertAfter inserts With after the line equal to Match.
	OpInsertAfter Op = "insert_after"
	// OpJoinNext replaces the line containing Match with With
	// concatenated to the following line, consuming it.
	OpJoinNext Op = "join_next"
	// OpTruncateAt cuts the line at the first occurrence of Match.
	OpTruncateAt Op = "truncate_at"
)

// Rewrite is a single line rewrite. With may contain embedded newlines;
// EditNewline splits them later in the pipeline. Count removes that many
// following lines on replace_exact, replace_line, remove_line and
// remove_next.
type Rewrite struct {
	Op     Op     `yaml:"op" json:"op"`
	Match  string `yaml:"match" json:"match"`
	With   string `yaml:"with,omitempty" json:"with,omitempty"`
	Count  int    `yaml:"count,omitempty" json:"count,omitempty"`
	Offset int    `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// RewriteTable maps "source/subject" to the rewrites for that subject's
// pages. Subjects are person names, state slugs or center names.
type RewriteTable map[string][]Rewrite

// RewriteKey builds the table key for a source and subject.
func RewriteKey(source, subject string) string {
	return source + "/" + subject
}

// Lookup returns the rewrites for a subject, or nil.
func (t RewriteTable) Lookup(source, subject string) []Rewrite {
	return t[RewriteKey(source, subject)]
}

// Merge copies entries of other into t, overriding duplicate keys.
func (t RewriteTable) Merge(other RewriteTable) {
	for k, v := range other {
		t[k] = v
	}
}

// LoadRewrites reads a YAML rewrite table so operators can add fixups
// without a rebuild.
func LoadRewrites(path string) (RewriteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rewrite table: %w", err)
	}
	var t RewriteTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse rewrite table: %w", err)
	}
	return t, nil
}

func dropFollowing(lnes []string, idx, count int) []string {
	for n := 0; n < count && idx+1 < len(lnes); n++ {
		lnes = removeAt(lnes, idx+1)
	}
	return lnes
}

// ApplyRewrites applies each rewrite in order over the line set.
func ApplyRewrites(lnes []string, rws []Rewrite) []string {
	for _, rw := range rws {
		lnes = applyRewrite(lnes, rw)
	}
	return lnes
}

func applyRewrite(lnes []string, rw Rewrite) []string {
	switch rw.Op {
	case OpReplaceExact:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if lnes[idx] == rw.Match {
				lnes[idx] = rw.With
				lnes = dropFollowing(lnes, idx, rw.Count)
			}
		}
	case OpReplaceContains:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if strings.Contains(lnes[idx], rw.Match) {
				lnes[idx] = strings.ReplaceAll(lnes[idx], rw.Match, rw.With)
			}
		}
	case OpReplaceLine:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if strings.Contains(lnes[idx], rw.Match) {
				lnes[idx] = rw.With
				lnes = dropFollowing(lnes, idx, rw.Count)
			}
		}
	case OpRemoveLine:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if lnes[idx] == rw.Match {
				lnes = dropFollowing(lnes, idx, rw.Count)
				lnes = removeAt(lnes, idx)
			}
		}
	case OpRemoveContains:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if strings.Contains(lnes[idx], rw.Match) {
				lnes = removeAt(lnes, idx)
			}
		}
	case OpRemoveNext:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if strings.Contains(lnes[idx], rw.Match) {
				lnes = dropFollowing(lnes, idx, rw.Count)
			}
		}
	case OpInsertBefore:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if lnes[idx] == rw.Match {
				at := idx - rw.Offset
				if at < 0 {
					at = 0
				}
				if at > 0 && lnes[at-1] == rw.With {
					break // already inserted
				}
				lnes = insertAt(lnes, at, rw.With)
				break
			}
		}
	case OpInsertAfter:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if lnes[idx] == rw.Match {
				if idx+1 < len(lnes) && lnes[idx+1] == rw.With {
					continue // already inserted
				}
				lnes = insertAt(lnes, idx+1, rw.With)
			}
		}
	case OpJoinNext:
		for idx := len(lnes) - 1; idx >= 0; idx-- {
			if strings.Contains(lnes[idx], rw.Match) && idx+1 < len(lnes) {
				lnes[idx] = rw.With + lnes[idx+1]
				lnes = removeAt(lnes, idx+1)
			}
		}
	case OpTruncateAt:
		for idx := range lnes {
			if fnd := strings.Index(lnes[idx], rw.Match); fnd >= 0 {
				lnes[idx] = lnes[idx][:fnd]
			}
		}
	}
	return lnes
}
