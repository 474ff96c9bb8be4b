package main

import (
	"fmt"
	"strings"

	"trellix/internal/board"
)

// resolveColumn finds a column by id, id prefix or case-insensitive name.
func resolveColumn(v board.View, ref string) (string, error) {
	var matches []string
	for _, c := range v.Columns {
		if c.ID == ref {
			return c.ID, nil
		}
		if strings.EqualFold(c.Name, ref) || strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c.ID)
		}
	}
	return pick("column", ref, matches)
}

// resolveCard finds a card by id or id prefix.
func resolveCard(v board.View, ref string) (string, error) {
	var matches []string
	for _, c := range v.Columns {
		for _, it := range c.Items {
			if it.ID == ref {
				return it.ID, nil
			}
			if strings.HasPrefix(it.ID, ref) {
				matches = append(matches, it.ID)
			}
		}
	}
	return pick("card", ref, matches)
}

func pick(kind, ref string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%q matches %d %ss, use a longer id", ref, len(matches), kind)
}
