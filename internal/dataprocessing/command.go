package dataprocessing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"logisticsmart/pkg/contracts/domain"
)

// CommandTerm is one column filter extracted from a free-text command
type CommandTerm struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type commandKeyword struct {
	keyword string
	key     string
	value   string
}

// commandKeywords are checked in order; a later keyword replaces the value
// of an earlier one with the same key.
var commandKeywords = []commandKeyword{
	{"camaçari", "cidade", "Camaçari"},
	{"salvador", "cidade", "Salvador"},
	{"lauro", "cidade", "Lauro de Freitas"},
	{"dias d'ávila", "cidade", "Dias D'Ávila"},
	{"ausência", "Tipo problemático", "Ausência"},
	{"endereço", "Tipo problemático", "Endereço incorreto"},
	{"telefone", "Tipo problemático", "Telefone errado"},
	{"ez", "produto", "EZ"},
	{"entregue", "status", "Entregue"},
	{"pendente", "status", "Pendente"},
}

// ParseCommand maps keywords found in text to column filters. Keywords
// shorter than three letters only match whole words.
func ParseCommand(text string) []CommandTerm {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}

	var terms []CommandTerm
	position := make(map[string]int)
	for _, kw := range commandKeywords {
		if !keywordPresent(text, words, kw.keyword) {
			continue
		}
		term := CommandTerm{Key: kw.key, Value: kw.value}
		if i, seen := position[kw.key]; seen {
			terms[i] = term
			continue
		}
		position[kw.key] = len(terms)
		terms = append(terms, term)
	}
	return terms
}

func keywordPresent(text string, words map[string]struct{}, keyword string) bool {
	if utf8.RuneCountInString(keyword) < 3 {
		_, ok := words[keyword]
		return ok
	}
	return strings.Contains(text, keyword)
}

// ApplyCommand filters t by the terms ParseCommand finds in text. Terms
// whose key resolves to no column are skipped.
func ApplyCommand(t *domain.Table, cols domain.ColumnMap, text string) *domain.Table {
	return ApplyFilters(t, cols, domain.FilterSpec{Command: text})
}
