package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []CommandTerm
	}{
		{"empty", "   ", nil},
		{"city", "mostrar entregas de Salvador", []CommandTerm{{"cidade", "Salvador"}}},
		{"accented city", "CAMAÇARI hoje", []CommandTerm{{"cidade", "Camaçari"}}},
		{"partial city", "rota lauro", []CommandTerm{{"cidade", "Lauro de Freitas"}}},
		{"problem type", "problemas de endereço", []CommandTerm{{"Tipo problemático", "Endereço incorreto"}}},
		{
			"several keys",
			"ausência em dias d'ávila produto ez",
			[]CommandTerm{{"cidade", "Dias D'Ávila"}, {"Tipo problemático", "Ausência"}, {"produto", "EZ"}},
		},
		{"short keyword needs whole word", "talvez dez", nil},
		{"later keyword wins", "entregue ou pendente", []CommandTerm{{"status", "Pendente"}}},
		{"later city wins", "salvador e camaçari", []CommandTerm{{"cidade", "Salvador"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.text))
		})
	}
}

func TestApplyCommand(t *testing.T) {
	table, cols := sampleTable(t)

	assert.Equal(t, []string{"Ana", "Duda", "Eva"}, column(ApplyCommand(table, cols, "tudo de salvador"), "Cliente"))
	assert.Equal(t, []string{"Ana", "Caio", "Eva"}, column(ApplyCommand(table, cols, "produto ez"), "Cliente"))
	assert.Equal(t, 5, ApplyCommand(table, cols, "problemas de telefone").Len(), "no problem type column")
	assert.Equal(t, 5, ApplyCommand(table, cols, "").Len())
}
