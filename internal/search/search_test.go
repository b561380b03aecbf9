// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package search_test

import (
	"strings"
	"testing"

	"codeberg.org/oliverandrich/adotafacil/internal/search"
	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestBuild_Defaults(t *testing.T) {
	q := search.Build(search.Filters{})

	assert.Contains(t, q.SQL, "WHERE a.id_situacao = ?")
	assert.NotContains(t, q.SQL, "\n  AND ")
	assert.True(t, strings.HasSuffix(q.SQL, search.OrderBy))
	assert.Equal(t, []any{nil, 1}, q.Args)
}

func TestBuild_RequestingUser(t *testing.T) {
	uid := int64(5)

	q := search.Build(search.Filters{RequestingUserID: &uid})

	assert.Equal(t, int64(5), q.Args[0])
}

func TestBuild_ExplicitSituation(t *testing.T) {
	q := search.Build(search.Filters{SituationID: intp(2)})

	assert.Equal(t, []any{nil, 2}, q.Args)
}

func TestBuild_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		f      search.Filters
		clause string
		args   []any
	}{
		{"name", search.Filters{Name: "Rex"}, "LOWER(a.nome) LIKE ?", []any{"%rex%"}},
		{"breed", search.Filters{Breed: "Vira-Lata"}, "LOWER(a.raca) LIKE ?", []any{"%vira-lata%"}},
		{"sex", search.Filters{Sex: "M"}, "a.sexo = ?", []any{"M"}},
		{"size", search.Filters{Size: "Grande"}, "a.porte = ?", []any{"Grande"}},
		{
			"free text",
			search.Filters{FreeText: "Calmo"},
			"(LOWER(a.nome) LIKE ? OR LOWER(a.raca) LIKE ? OR LOWER(a.descricao) LIKE ? OR LOWER(a.especie) LIKE ?)",
			[]any{"%calmo%", "%calmo%", "%calmo%", "%calmo%"},
		},
		{"state", search.Filters{State: "MG"}, "u.estado = ?", []any{"MG"}},
		{"city", search.Filters{City: "Contagem"}, "u.cidade = ?", []any{"Contagem"}},
		{"neighborhood", search.Filters{Neighborhood: "Centro"}, "LOWER(u.bairro) LIKE ?", []any{"%centro%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := search.Build(tt.f)

			assert.Contains(t, q.SQL, "AND "+tt.clause)
			assert.Equal(t, append([]any{nil, 1}, tt.args...), q.Args)
		})
	}
}

func TestBuild_AgeBounds(t *testing.T) {
	tests := []struct {
		name string
		f    search.Filters
		min  any
		max  any
	}{
		{"only min years", search.Filters{MinYears: intp(2)}, 24, nil},
		{"only min months", search.Filters{MinMonths: intp(3)}, 3, nil},
		{"min both", search.Filters{MinYears: intp(1), MinMonths: intp(6)}, 18, nil},
		{"only max years", search.Filters{MaxYears: intp(3)}, nil, 3*12 + 11},
		{"only max months", search.Filters{MaxMonths: intp(4)}, nil, 100*12 + 4},
		{"max both", search.Filters{MaxYears: intp(0), MaxMonths: intp(7)}, nil, 7},
		{"range", search.Filters{MinMonths: intp(5), MaxYears: intp(0), MaxMonths: intp(5)}, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := search.Build(tt.f)

			expected := []any{nil, 1}
			if tt.min != nil {
				assert.Contains(t, q.SQL, "IFNULL(a.meses, 0)) >= ?")
				expected = append(expected, tt.min)
			} else {
				assert.NotContains(t, q.SQL, ">= ?")
			}
			if tt.max != nil {
				assert.Contains(t, q.SQL, "IFNULL(a.meses, 0)) <= ?")
				expected = append(expected, tt.max)
			} else {
				assert.NotContains(t, q.SQL, "<= ?")
			}
			assert.Equal(t, expected, q.Args)
		})
	}
}

func TestBuild_PlaceholdersMatchArgs(t *testing.T) {
	uid := int64(9)
	q := search.Build(search.Filters{
		RequestingUserID: &uid,
		Name:             "a",
		Breed:            "b",
		MinYears:         intp(1),
		MaxYears:         intp(2),
		MinMonths:        intp(1),
		MaxMonths:        intp(2),
		Sex:              "F",
		Size:             "P",
		FreeText:         "c",
		SituationID:      intp(1),
		State:            "SP",
		City:             "Santos",
		Neighborhood:     "d",
	})

	assert.Equal(t, strings.Count(q.SQL, "?"), len(q.Args))
}

func TestBuild_ValuesNeverInterpolated(t *testing.T) {
	q := search.Build(search.Filters{Name: "x' OR 1=1 --", City: "'; DROP TABLE animais; --"})

	assert.NotContains(t, q.SQL, "OR 1=1")
	assert.NotContains(t, q.SQL, "DROP TABLE")
}
